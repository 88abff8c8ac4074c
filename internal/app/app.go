package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spamcheck/internal/config"
	"spamcheck/internal/httpx"
)

type cli struct {
	configPath string
	store      string

	cfg    config.Config
	logger *zap.Logger
	rt     *runtime
}

func Main() {
	c := &cli{}
	err := newRootCmd(c).Execute()
	// PersistentPostRun is skipped when a command fails.
	c.teardown()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "spamcheck",
		Short: "Check whether a phone number is likely a spam call",
		Long: `spamcheck classifies phone numbers against a built-in directory of known
spam numbers, a set of number-pattern heuristics and community reports.

Run "spamcheck tui" for the interactive checker or "spamcheck serve" to run
the Slack bot and the reported-numbers digest.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or config.yaml)")
	root.PersistentFlags().StringVar(&c.store, "store", "", "override store_backend (sqlite, file or memory)")

	root.AddCommand(
		newCheckCmd(c),
		newReportCmd(c),
		newRecentCmd(c),
		newTopCmd(c),
		newTUICmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", c.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.store != "" {
		cfg.StoreBackend = strings.ToLower(c.store)
	}
	c.cfg = cfg

	if c.logger == nil {
		// The interactive screen owns the terminal.
		if cmd.Name() == "tui" {
			c.logger = zap.NewNop()
		} else if c.logger, err = newLogger(cfg.LogLevel); err != nil {
			return err
		}
	}

	applied := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	c.logger.Debug("config loaded",
		zap.String("from", cfg.LoadedFrom),
		zap.String("store", cfg.StoreBackend),
		zap.String("codec", cfg.Codec),
		zap.Int("history_limit", cfg.HistoryLimit),
		zap.Int("spam_report_threshold", cfg.SpamReportThreshold),
		zap.String("timezone", cfg.Timezone),
		zap.Duration("external_http_timeout", applied),
	)

	c.rt, err = openRuntime(cfg, c.logger)
	return err
}

func (c *cli) teardown() {
	if c.rt != nil {
		if err := c.rt.Close(); err != nil {
			c.logger.Warn("close store failed", zap.Error(err))
		}
		c.rt = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level '%s': %w", level, err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
