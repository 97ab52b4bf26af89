package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/config"
	"github.com/jackzampolin/provlink/internal/home"
	"github.com/jackzampolin/provlink/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "provlink",
	Short: "Link extracted form fields to their source regions in the original document",
	Long: `provlink serves review sessions for documents that went through automated
extraction. A reviewer selects an extracted field and provlink resolves where
on the original page the value came from.

It provides:
  - Provenance parsing and per-field lookup with form-level fallback
  - Page navigation, zoom and render bookkeeping that discards stale results
  - Highlight overlays with confidence tiers and tooltip placement
  - A CLI for every HTTP endpoint (provlink api ...)`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.provlink/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "provlink home directory (default: ~/.provlink)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})), nil
}

// openConfig loads --config, falling back to the config file in the home directory.
func openConfig(h *home.Dir) (*config.Manager, error) {
	file := cfgFile
	if file == "" && h.ConfigExists() {
		file = h.ConfigPath()
	}
	return config.NewManager(file)
}
