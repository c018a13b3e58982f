package gallery

import "github.com/pders01/glimpse/internal/pixabay"

// pageLoadedMsg carries a finished request back into the update loop.
type pageLoadedMsg struct {
	gen  uint64
	page *pixabay.Page
	err  error
}

// scrollMsg fires after the post-page delay.
type scrollMsg struct {
	seq uint64
}
