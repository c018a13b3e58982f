package tui

type View int

const (
	// ViewSearch has the search box focused above the results.
	ViewSearch View = iota
	// ViewGallery browses the card grid.
	ViewGallery
	ViewDetail
	ViewFavorites
)

func (v View) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewGallery:
		return "gallery"
	case ViewDetail:
		return "detail"
	case ViewFavorites:
		return "favorites"
	default:
		return "unknown"
	}
}
