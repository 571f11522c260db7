// Package main is the entry point for the tentcards server and client
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/cmd/server/client"
	"github.com/KirkDiggler/tentcards/internal/config"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tentcards",
	Short: "Tent card printer for tabletop monsters",
	Long: `tentcards serves monster artwork generation and search, and drives a client
session that turns a working set of monsters into printable fold-over cards.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env TENTCARDS_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (env TENTCARDS_LOG_FORMAT)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(pruneImagesCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLogging()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
	return nil
}
