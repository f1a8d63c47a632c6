package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/weevil-bot/weevil/pkg/cli/config"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	"github.com/weevil-bot/weevil/pkg/service/classify"
)

func TestRulesConfigureDefaults(t *testing.T) {
	cfg := &config.Rules{}
	rules, err := cfg.Configure()
	gt.NoError(t, err)
	gt.Equal(t, rules.DefaultProduct, types.ProductProductX.String())
	gt.Equal(t, rules.FallbackTitle, "Bug Report")
}

func TestRulesConfigureOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	override := `default_product: Other
products:
  - match: importer
    value: Dataloader
`
	gt.NoError(t, os.WriteFile(path, []byte(override), 0600))

	cfg := &config.Rules{Path: path}
	rules, err := cfg.Configure()
	gt.NoError(t, err)

	classifier, err := classify.New(rules)
	gt.NoError(t, err)

	report := classifier.Classify("The importer crashed while syncing accounts. Stack trace attached below.")
	gt.Equal(t, report.Product, types.ProductDataloader)

	report = classifier.Classify("Search results page renders an empty list. Happens on every query.")
	gt.Equal(t, report.Product, types.ProductOther)
}

func TestRulesConfigureInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	gt.NoError(t, os.WriteFile(path, []byte("default_product: NoSuchProduct\n"), 0600))

	cfg := &config.Rules{Path: path}
	_, err := cfg.Configure()
	gt.Error(t, err)

	cfg = &config.Rules{Path: filepath.Join(t.TempDir(), "missing.yml")}
	_, err = cfg.Configure()
	gt.Error(t, err)
}
