package main

import (
	"fmt"

	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/spf13/cobra"
)

var (
	flagHistoryClear bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if flagHistoryClear {
			if err := store.ClearHistory(); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
			return nil
		}

		entries, err := store.RecentQueries(flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		renderHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded searches")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Max entries (0 = all)")
	historyCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}
