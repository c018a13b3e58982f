package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pders01/glimpse/internal/gallery"
	"github.com/pders01/glimpse/internal/search"
	"github.com/pders01/glimpse/internal/storage"
	"golang.org/x/term"
)

const defaultTableWidth = 100

// terminalWidth is the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTableWidth
}

type sessionOutput struct {
	Query  string           `json:"query"`
	Status string           `json:"status"`
	Note   string           `json:"note,omitempty"`
	Count  int              `json:"count"`
	Images []*storage.Image `json:"images"`
}

func renderSessionJSON(w io.Writer, s gallery.Session) error {
	images := s.Images
	if images == nil {
		images = []*storage.Image{}
	}
	return writeJSON(w, sessionOutput{
		Query:  s.Query,
		Status: s.Status.String(),
		Note:   s.ErrorMessage,
		Count:  len(images),
		Images: images,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderImageTable prints one image per line, tags filling what is left
// of width.
func renderImageTable(w io.Writer, images []*storage.Image, width int) {
	if len(images) == 0 {
		fmt.Fprintln(w, "No images found.")
		return
	}

	const row = "%-10s %-16s %-11s %7s  %s\n"
	tagsWidth := width - 48
	if tagsWidth < 10 {
		tagsWidth = 10
	}

	fmt.Fprintf(w, row, "ID", "USER", "SIZE", "LIKES", "TAGS")
	fmt.Fprintln(w, strings.Repeat("-", min(width, 48+tagsWidth)))
	for _, img := range images {
		fmt.Fprintf(w, row,
			fmt.Sprint(img.ID),
			truncate(img.User, 16),
			fmt.Sprintf("%dx%d", img.ImageWidth, img.ImageHeight),
			fmt.Sprint(img.Likes),
			truncate(img.Tags, tagsWidth))
	}
	fmt.Fprintf(w, "\n%d images\n", len(images))
}

func renderHistory(w io.Writer, entries []*storage.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches yet.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-18s %4d×  %s\n", e.LastSearched.Local().Format("2006-01-02 15:04"), e.Count, e.Query)
	}
}

func renderFavorites(w io.Writer, favs []*storage.Favorite, width int) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return
	}
	urlWidth := width - 30
	if urlWidth < 20 {
		urlWidth = 20
	}
	for _, f := range favs {
		fmt.Fprintf(w, "%-10d %-16s %s\n", f.Image.ID, truncate(f.Query, 16), truncate(f.Image.PageURL, urlWidth))
		if tags := f.Image.Tags; tags != "" {
			fmt.Fprintf(w, "%10s %s\n", "", truncate(tags, width-11))
		}
	}
}

func renderResults(w io.Writer, results []*search.Result, width int) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}
	for _, r := range results {
		f := r.Favorite
		fmt.Fprintf(w, "%-10d %5.2f  %s\n", f.Image.ID, r.Score, truncate(f.Image.Tags, width-18))
		for _, m := range r.Matches {
			fmt.Fprintf(w, "%18s%s: %s\n", "", m.Field, truncate(m.Text, width-28))
		}
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
