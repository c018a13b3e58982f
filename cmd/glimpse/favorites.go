package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/search"
	"github.com/pders01/glimpse/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagFind   string
	flagRemove string
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List, search or remove favorite images",
	RunE:  runFavorites,
}

func init() {
	favoritesCmd.Flags().StringVar(&flagFind, "find", "", "Search favorites by tag, author or query")
	favoritesCmd.Flags().StringVar(&flagRemove, "remove", "", "Remove the favorite with this image ID")
	favoritesCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(favoritesCmd)
}

func runFavorites(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	width := terminalWidth(out)

	switch {
	case flagRemove != "":
		id, err := strconv.Atoi(flagRemove)
		if err != nil {
			return fmt.Errorf("invalid image ID %q", flagRemove)
		}
		if err := store.DeleteFavorite(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no favorite with ID %d", id)
			}
			return err
		}
		if index := openIndex(cfg, store); index != nil {
			index.OnFavoriteDeleted(id)
			index.Close()
		}
		fmt.Fprintf(out, "Removed favorite %d.\n", id)
		return nil

	case flagFind != "":
		var searcher search.Searcher = search.NewEngine(store)
		if index := openIndex(cfg, store); index != nil {
			defer index.Close()
			searcher = index
		}
		if ds, ok := searcher.(search.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil {
				debuglog.Debugf("searching %d indexed favorites", n)
			}
		}
		results, err := searcher.Search(flagFind, 50)
		if err != nil {
			return fmt.Errorf("searching favorites: %w", err)
		}
		if flagJSON {
			return writeJSON(out, results)
		}
		renderResults(out, results, width)
		return nil

	default:
		favs, err := store.GetFavorites()
		if err != nil {
			return fmt.Errorf("reading favorites: %w", err)
		}
		if flagJSON {
			return writeJSON(out, favs)
		}
		renderFavorites(out, favs, width)
		return nil
	}
}
