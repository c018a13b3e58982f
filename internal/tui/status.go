package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgFavoriteAdded   = "Added to favorites"
	MsgFavoriteRemoved = "Removed from favorites"
	MsgNoFavorites     = "No favorites yet"
	MsgOpening         = "Opening…"
	MsgLoadingMore     = "Loading more…"
	MsgSearching       = "Searching…"
	MsgNoSelection     = "No image selected"
	MsgNoPageURL       = "This image has no page link"
)

func MsgImagesCount(n int, query string) string {
	query = strings.TrimSpace(query)
	switch {
	case n == 1:
		return fmt.Sprintf("1 image • %s", query)
	default:
		return fmt.Sprintf("%d images • %s", n, query)
	}
}
