// Package cli implements the tradeverify command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tradeverify/internal/app"
	"tradeverify/internal/platform/config"
	"tradeverify/internal/platform/logger"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tradeverify",
	Short: "Verify trade finance document fields",
	Long: `tradeverify checks SWIFT codes, HS codes, ports, companies, banks,
sanctions exposure and shipment references against registries, research
and web search, and cross-checks letter of credit documents for
consistency.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $TRADEVERIFY_CONFIG or ./config.toml)")
}

// SetVersion sets the version reported by `tradeverify version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// loadApp builds the component graph. Logs go to stderr so stdout stays
// usable for command output and the MCP stdio transport.
func loadApp(cmd *cobra.Command) (*app.App, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, log, nil
}
