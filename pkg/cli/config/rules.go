package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/weevil-bot/weevil/pkg/service/classify"
	"gopkg.in/yaml.v3"
)

// Rules holds the classifier rules configuration
type Rules struct {
	Path string
}

// Flags returns CLI flags for classifier rules configuration
func (r *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules",
			Usage:       "Path to a YAML file overriding the built-in classification rules",
			Category:    "Classifier",
			Sources:     cli.EnvVars("WEEVIL_RULES"),
			Destination: &r.Path,
		},
	}
}

// Configure loads the classifier rules. Without a file the built-in rules
// are used as-is.
func (r *Rules) Configure() (classify.Rules, error) {
	rules := classify.DefaultRules()
	if r.Path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return rules, goerr.Wrap(err, "failed to read rules file",
			goerr.V("path", r.Path))
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, goerr.Wrap(err, "failed to parse rules file",
			goerr.V("path", r.Path))
	}
	if err := rules.Validate(); err != nil {
		return rules, goerr.Wrap(err, "invalid rules file",
			goerr.V("path", r.Path))
	}

	return rules, nil
}

// LogValue returns structured log value
func (r Rules) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", r.Path),
	)
}
