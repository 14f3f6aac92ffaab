package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/gowa"
	"github.com/dantte-lp/gowa/internal/config"
	wametrics "github.com/dantte-lp/gowa/internal/metrics"
)

// Persistent flags shared by every subcommand (spec.md §6).
var (
	number     string
	secret     string
	verbose    bool
	debug      bool
	configPath string
)

// rootCmd is the top-level cobra command for gowa.
var rootCmd = &cobra.Command{
	Use:   "gowa",
	Short: "CLI client for the WA binary chat protocol",
	Long:  "gowa dials the chat server, runs the binary handshake, and sends or receives messages.",

	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&number, "number", "", "phone number, decimal ASCII, no leading + (required)")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", "", "base64-encoded 20-byte shared secret (required)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable info-level logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a gowa.yml config file (optional)")

	rootCmd.AddCommand(interactiveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(lastSeenCmd())
	rootCmd.AddCommand(messageCmd())
	rootCmd.AddCommand(imageCmd())
	rootCmd.AddCommand(locationCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds a slog.Logger whose level follows --debug/--verbose
// (--debug wins if both are set).
func newLogger() *slog.Logger {
	level := slog.LevelWarn

	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config (falling back to config.DefaultConfig) and
// lets --number/--secret take priority over the file/env account
// section, by injecting them as env overrides before config.Load runs
// its own env.Provider pass; that keeps a single validated merge point
// instead of reimplementing it here.
func loadConfig() (*config.Config, error) {
	if number != "" {
		if err := os.Setenv("GOWA_ACCOUNT_NUMBER", number); err != nil {
			return nil, err
		}
	}

	if secret != "" {
		if err := os.Setenv("GOWA_ACCOUNT_SECRET", secret); err != nil {
			return nil, err
		}
	}

	return config.Load(configPath)
}

// dial builds a gowa.Client from the merged config, exiting the
// handshake with a LoginError/ConnectionError on failure.
func dial(ctx context.Context) (*gowa.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	rawSecret, err := cfg.Account.Secret()
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}

	opts := []gowa.Option{
		gowa.WithLogger(newLogger()),
		gowa.WithHost(cfg.Chat.Host),
		gowa.WithPort(cfg.Chat.Port),
		gowa.WithDevice(cfg.Chat.Device, cfg.Chat.Version),
		gowa.WithDialRetry(cfg.Chat.DialAttempts, cfg.Chat.DialBackoff),
		gowa.WithMetrics(newCollector()),
	}

	switch cfg.Chat.AutoReceipt {
	case "legacy":
		opts = append(opts, gowa.WithAutoReceiptLegacy())
	case "current":
		opts = append(opts, gowa.WithAutoReceiptCurrent())
	}

	nickname := cfg.Account.Nickname
	if nickname == "" {
		nickname = cfg.Chat.Device
	}

	return gowa.Dial(ctx, cfg.Account.Number, rawSecret, nickname, opts...)
}

// newCollector builds the process-wide Prometheus collector; sessionMetrics
// is shared so a metrics server (started by long-running commands such as
// interactive) observes the same counters the session updates.
var sessionMetrics = wametrics.NewCollector(nil)

func newCollector() *wametrics.Collector {
	return sessionMetrics
}
