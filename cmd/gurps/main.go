// Package main is the gurps command-line tool: it resolves rolls against
// character files and runs the rules calculators from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/observability"
)

var (
	configPath string
	userID     string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gurps",
	Short: "GURPS rules resolution",
	Long: `gurps resolves GURPS success, damage and location rolls for characters
stored as YAML files, and exposes the skill, defense, equipment and stat block
calculators behind them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = observability.NewLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "user whose modifier stack rolls use")

	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(weightCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(parryCmd)
	rootCmd.AddCommand(mookCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(modifiersCmd)
}

// printJSON writes v indented to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
