package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/glimpse/internal/storage"
)

func TestGridColumns(t *testing.T) {
	tests := []struct {
		name                        string
		width, cardWidth, configured int
		want                        int
	}{
		{"fits three", 100, 32, 0, 3},
		{"narrow terminal", 20, 32, 0, 1},
		{"configured wins", 100, 32, 5, 5},
		{"zero card width", 100, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gridColumns(tt.width, tt.cardWidth, tt.configured))
		})
	}
}

func TestCardTitle(t *testing.T) {
	assert.Equal(t, "#7", cardTitle(&storage.Image{ID: 7}))
	assert.Equal(t, "cat · kitten · pet", cardTitle(&storage.Image{Tags: "cat, kitten, pet, animal"}))
}

func TestRenderGrid(t *testing.T) {
	images := make([]*storage.Image, 5)
	for i := range images {
		images[i] = &storage.Image{ID: i, Tags: "tag", User: "u"}
	}
	noFavorites := func(int) bool { return false }

	assert.Empty(t, renderGrid(nil, 3, 32, 0, noFavorites))

	grid := renderGrid(images, 3, 32, 0, noFavorites)
	card := renderCard(images[0], 32, false, false)
	assert.Equal(t, 2*lipgloss.Height(card), lipgloss.Height(grid), "five cards in rows of three")
	assert.LessOrEqual(t, lipgloss.Width(grid), 3*32)
}

func TestRenderCard_FavoriteMark(t *testing.T) {
	img := &storage.Image{ID: 1, Tags: "sunset"}
	assert.Contains(t, renderCard(img, 32, false, true), "★")
	assert.False(t, strings.Contains(renderCard(img, 32, false, false), "★"))
}
