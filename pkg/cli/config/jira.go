package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	jiraSvc "github.com/weevil-bot/weevil/pkg/service/jira"
)

// Jira holds Jira connection and project schema configuration
type Jira struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string

	EnvironmentField string
	ProductField     string
	StoryPointsField string

	DefaultProduct string
}

// Flags returns CLI flags for Jira configuration
func (j *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Jira site base URL (e.g. https://acme.atlassian.net)",
			Category:    "Jira",
			Sources:     cli.EnvVars("WEEVIL_JIRA_BASE_URL"),
			Destination: &j.BaseURL,
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Jira account email for basic auth",
			Category:    "Jira",
			Sources:     cli.EnvVars("WEEVIL_JIRA_EMAIL"),
			Destination: &j.Email,
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token for basic auth",
			Category:    "Jira",
			Sources:     cli.EnvVars("WEEVIL_JIRA_API_TOKEN"),
			Destination: &j.APIToken,
		},
		&cli.StringFlag{
			Name:        "jira-project-key",
			Usage:       "Project key new tickets are created in",
			Category:    "Jira",
			Sources:     cli.EnvVars("WEEVIL_JIRA_PROJECT_KEY"),
			Destination: &j.ProjectKey,
		},
		&cli.StringFlag{
			Name:        "jira-environment-field",
			Usage:       "Custom field ID of the environment single-select",
			Category:    "Jira",
			Value:       "customfield_10036",
			Sources:     cli.EnvVars("WEEVIL_JIRA_ENVIRONMENT_FIELD"),
			Destination: &j.EnvironmentField,
		},
		&cli.StringFlag{
			Name:        "jira-product-field",
			Usage:       "Custom field ID of the product multi-select",
			Category:    "Jira",
			Value:       "customfield_10037",
			Sources:     cli.EnvVars("WEEVIL_JIRA_PRODUCT_FIELD"),
			Destination: &j.ProductField,
		},
		&cli.StringFlag{
			Name:        "jira-story-points-field",
			Usage:       "Custom field ID of the story points number",
			Category:    "Jira",
			Value:       "customfield_10428",
			Sources:     cli.EnvVars("WEEVIL_JIRA_STORY_POINTS_FIELD"),
			Destination: &j.StoryPointsField,
		},
		&cli.StringFlag{
			Name:        "jira-default-product",
			Usage:       "Product assigned to tickets created via legacy commands",
			Category:    "Jira",
			Value:       types.ProductProductX.String(),
			Sources:     cli.EnvVars("WEEVIL_JIRA_DEFAULT_PRODUCT"),
			Destination: &j.DefaultProduct,
		},
	}
}

// Product returns the configured default product, falling back to
// ProductX when the value is unknown.
func (j *Jira) Product() types.Product {
	p := types.Product(j.DefaultProduct)
	if !p.IsValid() {
		return types.ProductProductX
	}
	return p
}

// Configure creates a Jira service, or nil when not configured
func (j *Jira) Configure() (*jiraSvc.Service, error) {
	if !j.IsConfigured() {
		return nil, nil
	}
	return jiraSvc.New(jiraSvc.Config{
		BaseURL:          j.BaseURL,
		Email:            j.Email,
		APIToken:         j.APIToken,
		ProjectKey:       j.ProjectKey,
		EnvironmentField: j.EnvironmentField,
		ProductField:     j.ProductField,
		StoryPointsField: j.StoryPointsField,
	})
}

// IsConfigured checks if Jira is properly configured
func (j *Jira) IsConfigured() bool {
	return j.BaseURL != "" && j.Email != "" && j.APIToken != "" && j.ProjectKey != ""
}

// LogValue returns structured log value
func (j Jira) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", j.BaseURL),
		slog.String("project_key", j.ProjectKey),
		slog.Bool("has_api_token", j.APIToken != ""),
		slog.String("environment_field", j.EnvironmentField),
		slog.String("product_field", j.ProductField),
		slog.String("story_points_field", j.StoryPointsField),
		slog.String("default_product", j.DefaultProduct),
	)
}
