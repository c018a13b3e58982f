package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/gallery"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/validation"
	"github.com/spf13/cobra"
)

var (
	flagPages int
	flagJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search without the interface and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagPages, "pages", "n", 1, "Number of pages to fetch")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
}

// stderrNotifier prints controller notices as plain lines.
type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) NotifySuccess(text string) { fmt.Fprintf(n.w, "✓ %s\n", text) }
func (n stderrNotifier) NotifyError(text string)   { fmt.Fprintf(n.w, "✗ %s\n", text) }

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := validation.NormalizeQuery(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if query == "" {
		return errors.New("search term is empty")
	}
	if flagPages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", flagPages)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if err := cfg.Validate(); err != nil {
		return err
	}

	notices := cmd.ErrOrStderr()
	if flagJSON {
		// Keep stdout parseable and stderr quiet
		notices = io.Discard
	}
	ctrl := gallery.New(pixabay.NewClient(cfg), stderrNotifier{w: notices}, nil, gallery.OptionsFromConfig(cfg))
	defer ctrl.Close()

	session := collectPages(ctrl, query, flagPages)

	if store, err := openStore(cfg); err == nil {
		if err := store.RecordQuery(query, time.Now()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving history: %v\n", err)
		}
		if err := store.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing database: %v\n", err)
		}
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return renderSessionJSON(out, session)
	}

	if r := gallery.Project(session); r.Kind == gallery.RenderError {
		return errors.New(r.Text)
	}
	if len(session.Images) == 0 {
		// A first page that failed leaves nothing to print
		return errors.New(session.ErrorMessage)
	}
	renderImageTable(out, session.Images, terminalWidth(out))
	return nil
}

// collectPages drives the controller synchronously: the first page, then
// load-more until pages have been requested or the trigger disappears.
func collectPages(ctrl *gallery.Controller, query string, pages int) gallery.Session {
	cmd := ctrl.SetQuery(query)
	for fetched := 0; cmd != nil; {
		// Without a scroller the controller has no follow-up commands
		ctrl.Update(cmd())
		fetched++
		if fetched >= pages {
			break
		}
		cmd = ctrl.LoadMore()
	}
	return ctrl.Session()
}
