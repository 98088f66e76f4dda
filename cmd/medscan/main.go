// Package main implements the medscan CLI: decode GS1 barcode
// payloads from medicine packaging and record them as intake history.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"medscan/internal/config"
	"medscan/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "medscan",
	Short: "GS1 barcode decoding and intake recording for medicine packaging",
	Long: `medscan decodes raw barcode payloads scanned from medicine packaging
(GS1 Application Identifiers: GTIN, expiry date, lot number, serial
number) and records them as intake history backed by SQLite.

Scanned payloads that match no GS1 shape are kept as-is so the
operator can fill in the fields manually; decoding never fails.

Examples:
  medscan decode "(01)05012345678901(17)260430(10)LOT12345"
  medscan intake "(01)05012345678901(17)260430(10)LOT12345"
  medscan intake-file shipment.txt
  medscan products import master.csv
  medscan history --limit 20
  medscan watch`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = dbPath
		}

		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(levelFor(cfg.LogLevel))
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func levelFor(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// openStore opens the configured database. Callers must Close it.
func openStore() (*store.Store, error) {
	st, err := store.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database, err)
	}
	return st, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "medscan.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override database path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
