package gallery

import "github.com/pders01/glimpse/internal/storage"

// Status is the coarse state of a search session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is the state of the active query. Images only grows while the
// query stays the same and is emptied when it changes.
type Session struct {
	Query  string
	Images []*storage.Image
	Status Status
	// ErrorMessage is the error text on StatusError and a transient note
	// (end of results, server trouble) on a session that is still browsable.
	ErrorMessage string
	FetchingMore bool
}

func (s Session) clone() Session {
	s.Images = append([]*storage.Image(nil), s.Images...)
	return s
}
