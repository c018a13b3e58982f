package gallery

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pders01/glimpse/internal/pixabay"
)

// Outcome is the class a finished page request falls into.
type Outcome int

const (
	OutcomePage Outcome = iota
	OutcomeNoResults
	OutcomeEndOfResults
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomePage:
		return "page"
	case OutcomeNoResults:
		return "no-results"
	case OutcomeEndOfResults:
		return "end-of-results"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// User facing texts.
const (
	MsgNoResults    = "Can't find image"
	MsgEndOfResults = "We're sorry, but you've reached the end of search results."
	MsgUnavailable  = "Sorry, there is no response from server. Please try again."
)

// FoundMessage is the notice shown once a query yields its second page.
func FoundMessage(totalHits int) string {
	return fmt.Sprintf("We found %d images!", totalHits)
}

// ClassifyPage sorts a decoded page. A page with no matches at all is
// NoResults; an empty page for a query that has matches is EndOfResults.
func ClassifyPage(page *pixabay.Page) Outcome {
	switch {
	case page == nil:
		return OutcomeUnavailable
	case page.TotalHits == 0:
		return OutcomeNoResults
	case len(page.Hits) == 0:
		return OutcomeEndOfResults
	default:
		return OutcomePage
	}
}

type httpStatuser interface {
	HTTPStatus() int
}

// ClassifyError maps a failed request to its outcome and annotation. The
// API answers 400 when the page runs past the last result.
func ClassifyError(err error) (Outcome, string) {
	var se httpStatuser
	if errors.As(err, &se) && se.HTTPStatus() == http.StatusBadRequest {
		return OutcomeEndOfResults, MsgEndOfResults
	}
	return OutcomeUnavailable, MsgUnavailable
}
