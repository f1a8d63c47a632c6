package classify

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// Keyword maps a case-insensitive substring to a classification value.
// Rule order matters: the first matching keyword wins, so overlapping
// substrings must list the more specific entry first.
type Keyword struct {
	Match string `yaml:"match"`
	Value string `yaml:"value"`
}

// Rules is the full keyword/pattern table driving classification. The zero
// value is not usable; start from DefaultRules or a YAML file.
type Rules struct {
	DefaultEnvironment string `yaml:"default_environment"`
	DefaultProduct     string `yaml:"default_product"`
	FallbackTitle      string `yaml:"fallback_title"`

	Environments []Keyword `yaml:"environments"`
	Products     []Keyword `yaml:"products"`

	DirectLinkPatterns   []string `yaml:"direct_link_patterns"`
	IndirectLinkPatterns []string `yaml:"indirect_link_patterns"`

	SkipPhrases []string `yaml:"skip_phrases"`
}

// DefaultRules returns the built-in classification table
func DefaultRules() Rules {
	return Rules{
		DefaultEnvironment: types.EnvironmentProd.String(),
		DefaultProduct:     types.ProductProductX.String(),
		FallbackTitle:      "Bug Report",
		Environments: []Keyword{
			{Match: "prod", Value: types.EnvironmentProd.String()},
			{Match: "production", Value: types.EnvironmentProd.String()},
			{Match: "live", Value: types.EnvironmentProd.String()},
			{Match: "dev", Value: types.EnvironmentDev.String()},
			{Match: "development", Value: types.EnvironmentDev.String()},
			{Match: "develop", Value: types.EnvironmentDev.String()},
			{Match: "stage", Value: types.EnvironmentStage.String()},
			{Match: "staging", Value: types.EnvironmentStage.String()},
			{Match: "test", Value: types.EnvironmentStage.String()},
			{Match: "testing", Value: types.EnvironmentStage.String()},
		},
		Products: []Keyword{
			{Match: "dataloader", Value: types.ProductDataloader.String()},
			{Match: "data loader", Value: types.ProductDataloader.String()},
			{Match: "data-loader", Value: types.ProductDataloader.String()},
			{Match: "productx", Value: types.ProductProductX.String()},
			{Match: "product x", Value: types.ProductProductX.String()},
			{Match: "product-x", Value: types.ProductProductX.String()},
			{Match: "other", Value: types.ProductOther.String()},
		},
		DirectLinkPatterns: []string{
			`https://(?:app|dev|test)\.example\.com/share/[a-f0-9-]+`,
		},
		IndirectLinkPatterns: []string{
			`https://(?:app|dev|test)\.example\.com/chat/[a-f0-9-]+`,
		},
		SkipPhrases: []string{
			"thanks", "thank you", "good morning", "hello", "hi ", "hey ",
			"lol", "haha", "👍", "👌", "nice", "great", "awesome",
		},
	}
}

// Validate checks the rule table for usable values
func (r *Rules) Validate() error {
	if !types.Environment(r.DefaultEnvironment).IsValid() {
		return goerr.New("invalid default environment", goerr.V("value", r.DefaultEnvironment))
	}
	if !types.Product(r.DefaultProduct).IsValid() {
		return goerr.New("invalid default product", goerr.V("value", r.DefaultProduct))
	}
	if r.FallbackTitle == "" {
		return goerr.New("fallback title must not be empty")
	}
	for _, kw := range r.Environments {
		if kw.Match == "" || !types.Environment(kw.Value).IsValid() {
			return goerr.New("invalid environment keyword",
				goerr.V("match", kw.Match), goerr.V("value", kw.Value))
		}
	}
	for _, kw := range r.Products {
		if kw.Match == "" || !types.Product(kw.Value).IsValid() {
			return goerr.New("invalid product keyword",
				goerr.V("match", kw.Match), goerr.V("value", kw.Value))
		}
	}
	return nil
}
