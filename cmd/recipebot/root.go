package main

import (
	"fmt"
	"os"

	"recipebot/internal/config"
	"recipebot/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "recipebot",
	Short: "Telegram bot for keeping a personal recipe book",
	Long: `recipebot stores recipes per Telegram user. Recipes are added by hand
or ingested from TikTok video descriptions, then tagged, browsed,
searched, edited and deleted through chat.

Configuration is read from the environment (and .env when present).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements and bot API traffic")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func newLogger(cfg *config.Config) *logger.ZapLogger {
	return logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
}
