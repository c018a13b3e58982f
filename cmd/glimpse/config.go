package main

import (
	"fmt"

	"github.com/pders01/glimpse/internal/config"
	"github.com/spf13/cobra"
)

var flagConfigOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfigOut
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	configGenCmd.Flags().StringVarP(&flagConfigOut, "output", "o", "", "Where to write the file (default ~/.config/glimpse/config.toml)")
	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(configCmd)
}
