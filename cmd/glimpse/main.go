package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/search"
	"github.com/pders01/glimpse/internal/storage"
	"github.com/pders01/glimpse/internal/tui"
	"github.com/spf13/cobra"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig string
	flagDB     string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:           "glimpse",
	Short:         "Search Pixabay images from the terminal",
	Long:          "glimpse searches Pixabay and shows the results as a scrollable card grid.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "glimpse %s\n", Version)
		fmt.Fprintln(out, "Terminal image search")
		fmt.Fprintln(out, "github.com/pders01/glimpse")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to database file (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Skip startup banner")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if err := debuglog.SetupFromConfig(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.NewStoreWithTimeout(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	store.SetHistoryLimit(cfg.Database.HistorySize)
	return store, nil
}

// openIndex opens the favorites index. A nil engine means the index is
// unavailable and callers fall back to the in-memory engine.
func openIndex(cfg *config.Config, store *storage.Store) *search.BleveEngine {
	if cfg.Database.SearchIndex == "" {
		return nil
	}
	engine, err := search.NewBleveEngine(store, cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("search index unavailable, using in-memory search: %v", err)
		return nil
	}
	return engine
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if err := cfg.Validate(); err != nil {
		return err
	}

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	app := tui.NewApp(store, cfg, pixabay.NewClient(cfg))
	defer app.Close()

	if index := openIndex(cfg, store); index != nil {
		defer index.Close()
		app.SetIndex(index)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
