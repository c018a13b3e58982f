package storage

import (
	"strings"
	"time"
)

// Image is one search hit as returned by the image API. The JSON tags
// follow the Pixabay wire names so hits decode straight into this type and
// favorites round-trip through the store unchanged.
type Image struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	Type          string `json:"type"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	PreviewWidth  int    `json:"previewWidth"`
	PreviewHeight int    `json:"previewHeight"`
	WebformatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
	ImageSize     int    `json:"imageSize"`
	Views         int    `json:"views"`
	Downloads     int    `json:"downloads"`
	Collections   int    `json:"collections"`
	Likes         int    `json:"likes"`
	Comments      int    `json:"comments"`
	UserID        int    `json:"user_id"`
	User          string `json:"user"`
	UserImageURL  string `json:"userImageURL"`
}

// TagList splits the comma separated tag string.
func (i *Image) TagList() []string {
	var tags []string
	for _, t := range strings.Split(i.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Favorite is an image the user kept, with the query it was found under.
type Favorite struct {
	Image   Image     `json:"image"`
	Query   string    `json:"query"`
	SavedAt time.Time `json:"saved_at"`
}

// HistoryEntry records a submitted search term.
type HistoryEntry struct {
	Query        string    `json:"query"`
	LastSearched time.Time `json:"last_searched"`
	Count        int       `json:"count"`
}
