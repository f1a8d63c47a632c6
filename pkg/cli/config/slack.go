package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	slackSvc "github.com/weevil-bot/weevil/pkg/service/slack"
)

// Slack holds Slack configuration
type Slack struct {
	OAuthToken    string
	SigningSecret string
	WorkspaceURL  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for API access",
			Category:    "Slack",
			Sources:     cli.EnvVars("WEEVIL_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for request verification",
			Category:    "Slack",
			Sources:     cli.EnvVars("WEEVIL_SLACK_SIGNING_SECRET"),
			Destination: &s.SigningSecret,
		},
		&cli.StringFlag{
			Name:        "slack-workspace-url",
			Usage:       "Workspace base URL used to build thread permalinks (e.g. https://acme.slack.com)",
			Category:    "Slack",
			Sources:     cli.EnvVars("WEEVIL_SLACK_WORKSPACE_URL"),
			Destination: &s.WorkspaceURL,
		},
	}
}

// Configure creates a Slack service, or nil when not configured
func (s *Slack) Configure() *slackSvc.Service {
	if !s.IsConfigured() {
		return nil
	}
	return slackSvc.New(s.OAuthToken)
}

// IsConfigured checks if Slack is properly configured for API access
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != ""
}

// IsFullyConfigured checks if the webhook endpoint can verify requests too
func (s *Slack) IsFullyConfigured() bool {
	return s.OAuthToken != "" && s.SigningSecret != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.Bool("has_signing_secret", s.SigningSecret != ""),
		slog.String("workspace_url", s.WorkspaceURL),
	)
}
