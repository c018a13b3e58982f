package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/pders01/glimpse/internal/config"
)

// KeyMap holds every binding the app reacts to outside of text input.
type KeyMap struct {
	Quit      key.Binding
	Search    key.Binding
	LoadMore  key.Binding
	Retry     key.Binding
	Favorite  key.Binding
	Favorites key.Binding
	Open      key.Binding
	OpenPage  key.Binding
	Back      key.Binding
	Select    key.Binding
	Delete    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Complete  key.Binding
	Submit    key.Binding
}

// NewKeyMap builds the bindings from the configured keys. The search key
// also answers to modifier+key so it works from any view.
func NewKeyMap(cfg *config.Config) KeyMap {
	b := cfg.Keys.Bindings
	modifier := cfg.Keys.Modifier + "+"

	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(b.Quit, "ctrl+c"),
			key.WithHelp(b.Quit, "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys(b.Search, "/", modifier+b.Search),
			key.WithHelp(b.Search, "search"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys(b.LoadMore),
			key.WithHelp(b.LoadMore, "load more"),
		),
		Retry: key.NewBinding(
			key.WithKeys(b.Retry),
			key.WithHelp(b.Retry, "retry"),
		),
		Favorite: key.NewBinding(
			key.WithKeys(b.Favorite),
			key.WithHelp(b.Favorite, "favorite"),
		),
		Favorites: key.NewBinding(
			key.WithKeys(b.Favorites),
			key.WithHelp(b.Favorites, "favorites"),
		),
		Open: key.NewBinding(
			key.WithKeys(b.Open),
			key.WithHelp(b.Open, "open image"),
		),
		OpenPage: key.NewBinding(
			key.WithKeys(b.OpenPage),
			key.WithHelp(b.OpenPage, "open page"),
		),
		Back: key.NewBinding(
			key.WithKeys(b.Back),
			key.WithHelp(b.Back, "back"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "remove"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
	}
}
