package search

import "github.com/pders01/glimpse/internal/storage"

// Searcher defines the minimal search API used by the TUI and CLI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// FavoriteSource is the part of the store the engines read from.
type FavoriteSource interface {
	GetFavorites() ([]*storage.Favorite, error)
	GetFavorite(id int) (*storage.Favorite, error)
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified about favorite changes.
type UpdateListener interface {
	OnFavoriteSaved(fav *storage.Favorite)
	OnFavoriteDeleted(id int)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}
