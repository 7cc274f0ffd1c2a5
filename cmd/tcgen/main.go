// tcgen - Telegraf configuration generator for OPC UA telemetry.
//
// tcgen reads a CSV export of OPC UA node descriptors and produces a
// Telegraf configuration file with one input node entry and one MQTT
// output stanza per node, guaranteeing every generated MQTT topic name
// is legal. See the package documentation under internal/ for the
// individual pipeline stages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/TailGuy/Telegraf-conf-generator/migrations"

	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/config"
	"github.com/TailGuy/Telegraf-conf-generator/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Root persistent flag values.
var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tcgen",
	Short: "Generate Telegraf configuration from OPC UA node exports",
	Long: `tcgen converts a CSV export of OPC UA node descriptors into a
Telegraf configuration file: one input node entry and one MQTT output
stanza per node, with every topic name checked (and where necessary
rewritten) to satisfy MQTT naming rules.

Configuration is read from configs/config.yaml by default; --config or
the TCGEN_CONFIG environment variable select a different file, and when
the default path has no file the built-in defaults are used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Cancel on interrupt signals so history writes are not torn mid-run.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to configuration file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"override logging level (debug, info, warn, error)")
}

// loadConfig resolves the configuration for a command invocation.
//
// Resolution order for the file path: --config flag, then TCGEN_CONFIG,
// then config.DefaultPath. A missing file at the default path falls back
// to the built-in defaults; a missing file that was named explicitly is
// an error.
//
// Returns:
//   - *config.Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validated
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = os.Getenv("TCGEN_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && config.IsNotExist(err) {
			return config.Default()
		}
		return nil, err
	}

	return cfg, nil
}

// newLogger builds the command logger from config, applying the
// --log-level override when given.
func newLogger(cfg *config.Config) *logging.Logger {
	logCfg := cfg.Logging
	if flagLogLevel != "" {
		logCfg.Level = flagLogLevel
	}
	return logging.New(logCfg, version)
}
