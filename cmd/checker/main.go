package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"courtChecker/internal/browser"
	"courtChecker/internal/checker"
	"courtChecker/internal/probe"
	"courtChecker/pkg/config"
	"courtChecker/pkg/logger"
	"courtChecker/pkg/report"
	"courtChecker/pkg/slack"
	"courtChecker/pkg/snapshot"
)

type options struct {
	configPath string
	noNotify   bool
	noSnapshot bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "checker",
		Short: "Checks the Toda reservation system for open badminton slots.",
		Long: "checker opens the Toda facility reservation system in headless Chrome, reads the\n" +
			"one-week availability of " + config.Facility + " and posts to Slack when a slot is open.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the JSON config file")
	root.PersistentFlags().BoolVar(&opts.noNotify, "no-notify", false, "do not send Slack notifications")
	root.Flags().BoolVar(&opts.noSnapshot, "no-snapshot", false, "do not write the JSON results file")

	root.AddCommand(newNotifyTestCmd(opts))
	return root
}

func newNotifyTestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Sends a sample availability notification to the configured webhook.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			log.Info("testing notification system with sample data")
			client := slack.NewClient(cfg.Notification, false, log)
			if err := client.NotifyTest(cmd.Context()); err != nil {
				return fmt.Errorf("notification test failed: %w", err)
			}
			log.Info("test notification sent")
			return nil
		},
	}
}

func setup(opts *options) (*config.Config, *zap.Logger, error) {
	cfg, found, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	if !found {
		log.Warn("config file not found, using defaults", zap.String("path", opts.configPath))
	}
	if cfg.Notification.SlackWebhookURL == "" {
		log.Warn("SLACK_WEBHOOK_URL is not set")
		log.Info("set it in the environment or a .env file, e.g. export SLACK_WEBHOOK_URL='your_webhook_url_here'")
	} else {
		log.Info("slack webhook configured", zap.Int("url_length", len(cfg.Notification.SlackWebhookURL)))
	}
	if opts.noNotify {
		log.Info("notifications disabled (--no-notify flag is set)")
	}

	return cfg, log, nil
}

func runCheck(ctx context.Context, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	notifier := slack.NewClient(cfg.Notification, opts.noNotify, log)

	var store *snapshot.Store
	if cfg.Snapshot.Enabled && !opts.noSnapshot {
		store, err = snapshot.NewStore(cfg.Snapshot.Dir)
		if err != nil {
			log.Warn("snapshots disabled", zap.Error(err))
			store = nil
		}
	}

	var prober checker.Prober
	if cfg.Probe.Enabled {
		prober = probe.New(config.Host, config.BaseURL, cfg.Probe.Timeout, log)
	}

	open := func(ctx context.Context) (checker.Session, error) {
		b, err := browser.New(ctx, cfg.Browser, log)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	c := checker.New(open, prober, report.New(os.Stdout, notifier, store, log), notifier, log)

	outcome, err := c.Run(ctx)
	log.Info("run finished", zap.String("outcome", string(outcome)))
	return err
}
