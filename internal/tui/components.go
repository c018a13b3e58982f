package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/glimpse/internal/storage"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderMuted renders text in muted color (utility wrapper).
func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderHelp renders help/instructional text consistently.
func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// cardTitle is the first few tags, which is as close to a caption as the
// API gets.
func cardTitle(img *storage.Image) string {
	tags := img.TagList()
	if len(tags) == 0 {
		return fmt.Sprintf("#%d", img.ID)
	}
	if len(tags) > 3 {
		tags = tags[:3]
	}
	return strings.Join(tags, " · ")
}

// renderCard draws one result card. Every card has the same height so the
// grid rows line up and the first card's height is the row height.
func renderCard(img *storage.Image, width int, selected, favorite bool) string {
	inner := width - 4 // border and padding
	if inner < 8 {
		inner = 8
	}

	mark := " "
	if favorite {
		mark = FavoriteMarkStyle.Render("★")
	}

	title := CardTitleStyle.Render(truncateEnd(cardTitle(img), inner-2))
	author := renderMuted(truncateEnd("by "+img.User, inner))
	size := renderMuted(truncateEnd(fmt.Sprintf("%d×%d", img.ImageWidth, img.ImageHeight), inner))
	stats := truncateEnd(fmt.Sprintf("♥ %s  ↓ %s  👁 %s",
		compactCount(img.Likes), compactCount(img.Downloads), compactCount(img.Views)), inner)

	body := lipgloss.JoinVertical(lipgloss.Left,
		mark+" "+title,
		author,
		size,
		stats,
	)

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}
	return style.Width(width - 2).Render(body)
}

// gridColumns is how many cards fit side by side.
func gridColumns(width, cardWidth, configured int) int {
	if configured > 0 {
		return configured
	}
	if cardWidth <= 0 {
		return 1
	}
	cols := width / cardWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

// renderGrid lays cards out in rows of cols.
func renderGrid(images []*storage.Image, cols, cardWidth, selected int, isFavorite func(int) bool) string {
	if len(images) == 0 || cols < 1 {
		return ""
	}
	var rows []string
	for start := 0; start < len(images); start += cols {
		end := start + cols
		if end > len(images) {
			end = len(images)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			img := images[i]
			cards = append(cards, renderCard(img, cardWidth, i == selected, isFavorite(img.ID)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
