package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/storage"
)

const historyRecall = 50

type historyLoadedMsg struct {
	queries []string
}

type favoritesLoadedMsg struct {
	favorites []*storage.Favorite
}

type favoriteToggledMsg struct {
	image *storage.Image
	added bool
	err   error
}

type favoriteDeletedMsg struct {
	id  int
	err error
}

type detailRenderedMsg struct {
	id      int
	content string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.RecentQueries(historyRecall)
		if err != nil {
			return errorMsg{err: wrapErr("loading history", err)}
		}
		queries := make([]string, len(entries))
		for i, e := range entries {
			queries[i] = e.Query
		}
		return historyLoadedMsg{queries: queries}
	}
}

func (a *App) recordQuery(query string) tea.Cmd {
	return func() tea.Msg {
		if err := retryOperation(func() error { return a.store.RecordQuery(query, time.Now()) }); err != nil {
			return errorMsg{err: wrapErr("saving history", err)}
		}
		return a.loadHistory()()
	}
}

func (a *App) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		favs, err := a.store.GetFavorites()
		if err != nil {
			return errorMsg{err: wrapErr("loading favorites", err)}
		}
		return favoritesLoadedMsg{favorites: favs}
	}
}

func (a *App) toggleFavorite(img *storage.Image) tea.Cmd {
	query := a.ctrl.Query()
	index := a.index
	return func() tea.Msg {
		var added bool
		err := retryOperation(func() error {
			var toggleErr error
			added, toggleErr = a.store.ToggleFavorite(img, query, time.Now())
			return toggleErr
		})
		if err != nil {
			return favoriteToggledMsg{image: img, err: wrapErr("updating favorite", err)}
		}
		if index != nil {
			if !added {
				index.OnFavoriteDeleted(img.ID)
			} else if fav, getErr := a.store.GetFavorite(img.ID); getErr == nil {
				index.OnFavoriteSaved(fav)
			}
		}
		return favoriteToggledMsg{image: img, added: added}
	}
}

func (a *App) deleteFavorite(id int) tea.Cmd {
	index := a.index
	return func() tea.Msg {
		err := retryOperation(func() error { return a.store.DeleteFavorite(id) })
		if err == nil && index != nil {
			index.OnFavoriteDeleted(id)
		}
		return favoriteDeletedMsg{id: id, err: err}
	}
}

func (a *App) renderDetail(img *storage.Image) tea.Cmd {
	favorite := a.favorites[img.ID]
	r, err := a.getRenderer()
	return func() tea.Msg {
		md := detailMarkdown(img, favorite)
		if err != nil {
			return detailRenderedMsg{id: img.ID, content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(md)
		if err != nil {
			debuglog.Warnf("tui: rendering detail for %d: %v", img.ID, err)
			return detailRenderedMsg{id: img.ID, content: md}
		}
		return detailRenderedMsg{id: img.ID, content: rendered}
	}
}

func detailMarkdown(img *storage.Image, favorite bool) string {
	var b strings.Builder

	title := cardTitle(img)
	if favorite {
		title = "★ " + title
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))
	if img.User != "" {
		b.WriteString(fmt.Sprintf("*by %s*\n\n", img.User))
	}

	if tags := img.TagList(); len(tags) > 0 {
		b.WriteString("**Tags:** ")
		for i, t := range tags {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("`" + t + "`")
		}
		b.WriteString("\n\n")
	}

	b.WriteString("| | |\n|---|---|\n")
	if img.Type != "" {
		b.WriteString(fmt.Sprintf("| Type | %s |\n", img.Type))
	}
	b.WriteString(fmt.Sprintf("| Resolution | %d × %d |\n", img.ImageWidth, img.ImageHeight))
	if img.ImageSize > 0 {
		b.WriteString(fmt.Sprintf("| File size | %s |\n", humanBytes(img.ImageSize)))
	}
	b.WriteString(fmt.Sprintf("| Views | %s |\n", compactCount(img.Views)))
	b.WriteString(fmt.Sprintf("| Downloads | %s |\n", compactCount(img.Downloads)))
	b.WriteString(fmt.Sprintf("| Likes | %s |\n", compactCount(img.Likes)))
	b.WriteString(fmt.Sprintf("| Comments | %s |\n", compactCount(img.Comments)))
	b.WriteString("\n---\n\n")

	if img.LargeImageURL != "" {
		b.WriteString(fmt.Sprintf("- [Full size image](%s)\n", img.LargeImageURL))
	}
	if img.PageURL != "" {
		b.WriteString(fmt.Sprintf("- [Pixabay page](%s)\n", img.PageURL))
	}
	if img.PreviewURL != "" {
		b.WriteString(fmt.Sprintf("- [Preview](%s)\n", img.PreviewURL))
	}

	return b.String()
}

func (a *App) openImage(img *storage.Image) tea.Cmd {
	url := img.LargeImageURL
	if url == "" {
		url = img.WebformatURL
	}
	return a.openURL(url, a.launcher.OpenImage)
}

func (a *App) openPage(img *storage.Image) tea.Cmd {
	if img.PageURL == "" {
		return func() tea.Msg { return statusMsg{text: MsgNoPageURL, kind: StatusWarn} }
	}
	return a.openURL(img.PageURL, a.launcher.OpenPage)
}

func (a *App) openURL(url string, open func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			return errorMsg{err: wrapErr("opening "+truncateMiddle(url, 40), err)}
		}
		return statusMsg{text: MsgOpening, kind: StatusInfo}
	}
}

// retryOperation retries a database operation up to 3 times with exponential backoff
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				time.Sleep(baseDelay * time.Duration(1<<i))
			}
			continue
		}
		return nil
	}
	return lastErr
}
