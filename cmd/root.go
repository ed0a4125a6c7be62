package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/config"
	"github.com/sells-group/commission-cli/internal/stage"
	"github.com/sells-group/commission-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "commission-cli",
	Short: "Deal credit attribution across messaging, calendar, and CRM exports",
	Long:  "Reconciles company identity across inconsistently-named data sources, scans conversation streams for sales-stage signals, and splits deal credit across participants.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens and migrates the configured store backend.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// loadPipeline reads the stage pipeline from the flag path, the configured
// path, or falls back to the built-in default.
func loadPipeline(flagPath string) (*stage.Pipeline, error) {
	path := flagPath
	if path == "" {
		path = cfg.Pipeline.Path
	}
	if path == "" {
		zap.L().Debug("no pipeline file configured, using built-in stages")
		return stage.Default(), nil
	}
	return stage.LoadFile(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
