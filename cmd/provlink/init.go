package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/config"
	"github.com/jackzampolin/provlink/internal/home"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory and a default config file",
	Long: `Create the provlink home directory (~/.provlink by default) and write a
config.yaml with every setting at its default value.

Examples:
  provlink init                       # Initialize ~/.provlink
  provlink init --home ./dev-home     # Initialize a local home for development
  provlink init --force               # Overwrite an existing config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if h.ConfigExists() && !initForce {
			fmt.Printf("Config already exists: %s (use --force to overwrite)\n", h.ConfigPath())
			return nil
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		fmt.Printf("Documents: %s\n", h.DataPath())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
