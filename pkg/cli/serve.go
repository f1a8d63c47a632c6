package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/weevil-bot/weevil/pkg/cli/config"
	controller "github.com/weevil-bot/weevil/pkg/controller/http"
	slackCtrl "github.com/weevil-bot/weevil/pkg/controller/slack"
	"github.com/weevil-bot/weevil/pkg/repository"
	"github.com/weevil-bot/weevil/pkg/service/classify"
	"github.com/weevil-bot/weevil/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		slackCfg  config.Slack
		jiraCfg   config.Jira
		rulesCfg  config.Rules
	)

	flags := joinFlags(
		serverCfg.Flags(),
		slackCfg.Flags(),
		jiraCfg.Flags(),
		rulesCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Get logger from root command metadata
			logger := ctxlog.From(ctx)

			logger.Info("Starting weevil server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("slack", slackCfg),
				slog.Any("jira", jiraCfg),
				slog.Any("rules", rulesCfg),
			)

			// Create Slack client
			slackClient := slackCfg.Configure()
			if slackClient == nil {
				return goerr.New("Slack client configuration is required. Please provide WEEVIL_SLACK_OAUTH_TOKEN")
			}
			if !slackCfg.IsFullyConfigured() {
				return goerr.New("Slack signing secret is required. Please provide WEEVIL_SLACK_SIGNING_SECRET")
			}

			// Create Jira client
			jiraClient, err := jiraCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Jira client")
			}
			if jiraClient == nil {
				return goerr.New("Jira client configuration is required. Please provide WEEVIL_JIRA_BASE_URL, WEEVIL_JIRA_EMAIL, WEEVIL_JIRA_API_TOKEN and WEEVIL_JIRA_PROJECT_KEY")
			}

			// Load classification rules
			rules, err := rulesCfg.Configure()
			if err != nil {
				return err
			}
			classifier, err := classify.New(rules)
			if err != nil {
				return goerr.Wrap(err, "failed to build classifier")
			}

			// Resolve the bot's own user ID so its messages are ignored
			authResp, err := slackClient.AuthTest(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to verify Slack credentials")
			}
			logger.Info("Slack authentication succeeded",
				slog.String("botUserID", authResp.UserID),
				slog.String("team", authResp.Team),
			)

			store := repository.NewMemory()
			defer store.Close()

			// Create use cases
			reportUC := usecase.NewReport(store, slackClient, jiraClient, classifier, slackCfg.WorkspaceURL)
			commandUC := usecase.NewCommand(slackClient, jiraClient, slackCfg.WorkspaceURL, jiraCfg.Product())
			sweeper := usecase.NewSweeper(store, usecase.DefaultSweepInterval, usecase.DefaultRetention)

			// Create HTTP server
			eventHandler := slackCtrl.NewEventHandler(reportUC, commandUC, authResp.UserID)
			slackHandler := slackCtrl.NewHandler(&slackCfg, eventHandler)
			server := controller.NewServer(ctx, serverCfg.Addr, slackHandler)

			sweepCtx, stopSweeper := context.WithCancel(ctx)
			defer stopSweeper()
			go sweeper.Run(sweepCtx)

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
