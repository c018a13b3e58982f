package gallery

import "github.com/pders01/glimpse/internal/storage"

// RenderKind selects what the panel draws.
type RenderKind int

const (
	RenderNothing RenderKind = iota
	RenderLoader
	RenderError
	RenderGallery
)

func (k RenderKind) String() string {
	switch k {
	case RenderNothing:
		return "nothing"
	case RenderLoader:
		return "loader"
	case RenderError:
		return "error"
	case RenderGallery:
		return "gallery"
	default:
		return "unknown"
	}
}

// Render is what the panel should show for a session.
type Render struct {
	Kind RenderKind
	// Text is set for RenderError.
	Text   string
	Images []*storage.Image
	// ShowLoader asks for a secondary spinner under the grid.
	ShowLoader bool
	// ShowLoadMore asks for the load-more trigger under the grid.
	ShowLoadMore bool
}

// Project derives the render from a session. It has no side effects.
func Project(s Session) Render {
	switch s.Status {
	case StatusLoading:
		return Render{Kind: RenderLoader}
	case StatusError:
		return Render{Kind: RenderError, Text: s.ErrorMessage + ": " + s.Query}
	case StatusSuccess:
		return Render{
			Kind:         RenderGallery,
			Images:       s.Images,
			ShowLoader:   s.FetchingMore,
			ShowLoadMore: !s.FetchingMore && s.ErrorMessage == "",
		}
	default:
		return Render{Kind: RenderNothing}
	}
}
