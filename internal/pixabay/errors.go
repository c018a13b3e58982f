package pixabay

import (
	"fmt"
	"net/http"
)

// FetchError describes a failed page request. StatusCode is the HTTP status
// the server answered with, or 0 when no response arrived at all.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("no response from image API: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("image API error %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("image API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPStatus reports the response status, 0 meaning no response.
func (e *FetchError) HTTPStatus() int { return e.StatusCode }
