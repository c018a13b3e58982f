package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/storage"
	"github.com/pders01/glimpse/internal/validation"
	"github.com/sahilm/fuzzy"
)

type KeyHandler struct {
	app    *App
	config *config.Config
	keys   KeyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg, keys: NewKeyMap(cfg)}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.quit()
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.input.Focused()
	case ViewFavorites:
		return kh.app.favList.FilterState() == list.Filtering
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.view == ViewFavorites {
		var cmd tea.Cmd
		kh.app.favList, cmd = kh.app.favList.Update(msg)
		return kh.app, cmd
	}

	switch {
	case msg.String() == "esc":
		return kh.navigateBack()
	case key.Matches(msg, kh.keys.Submit):
		return kh.app, kh.submitSearch()
	case key.Matches(msg, kh.keys.Complete):
		kh.completeSuggestion()
		return kh.app, nil
	case msg.String() == "down" && len(kh.app.ctrl.Images()) > 0:
		kh.app.input.Blur()
		kh.app.view = ViewGallery
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search box and refreshes the
// history suggestion for the new value.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	kh.app.input, cmd = kh.app.input.Update(msg)
	kh.app.suggestion = suggestQuery(kh.app.input.Value(), kh.app.history)
	return kh.app, cmd
}

// submitSearch normalises the search box and hands the term to the
// controller. Resubmitting the active term does nothing.
func (kh *KeyHandler) submitSearch() tea.Cmd {
	a := kh.app
	q, err := validation.NormalizeQuery(a.input.Value())
	if err != nil {
		a.toaster.Show(err.Error(), StatusWarn)
		return nil
	}

	a.input.SetValue(q)
	a.input.Blur()
	a.suggestion = ""
	a.view = ViewGallery

	if q == a.ctrl.Query() {
		return nil
	}

	a.selected = 0
	a.scroller.Cancel()
	a.grid.GotoTop()

	cmds := []tea.Cmd{a.ctrl.SetQuery(q)}
	if q != "" {
		cmds = append(cmds, a.recordQuery(q))
	}
	return tea.Batch(cmds...)
}

func (kh *KeyHandler) completeSuggestion() {
	if kh.app.suggestion == "" {
		return
	}
	kh.app.input.SetValue(kh.app.suggestion)
	kh.app.input.CursorEnd()
	kh.app.suggestion = ""
}

// suggestQuery returns the best fuzzy match for input among past queries,
// or "" when there is none worth offering.
func suggestQuery(input string, history []string) string {
	input = strings.TrimSpace(input)
	if input == "" || len(history) == 0 {
		return ""
	}

	lower := make([]string, len(history))
	for i, h := range history {
		lower[i] = strings.ToLower(h)
	}

	needle := strings.ToLower(input)
	for _, m := range fuzzy.Find(needle, lower) {
		if lower[m.Index] != needle {
			return history[m.Index]
		}
	}
	return ""
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, kh.keys.Quit) {
		model, cmd := kh.quit()
		return model, cmd, true
	}
	if key.Matches(msg, kh.keys.Back) {
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewSearch, ViewGallery:
		return kh.handleGalleryCustomKeys(msg)
	case ViewDetail:
		return kh.handleDetailCustomKeys(msg)
	case ViewFavorites:
		return kh.handleFavoritesCustomKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleGalleryCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case key.Matches(msg, kh.keys.LoadMore):
		return a, a.ctrl.LoadMore(), true
	case key.Matches(msg, kh.keys.Retry):
		return a, a.ctrl.Retry(), true
	case key.Matches(msg, kh.keys.Favorites):
		return a, kh.showFavorites(), true
	case key.Matches(msg, kh.keys.Up):
		a.moveSelection(-a.columns())
		return a, nil, true
	case key.Matches(msg, kh.keys.Down):
		a.moveSelection(a.columns())
		return a, nil, true
	case key.Matches(msg, kh.keys.Left):
		a.moveSelection(-1)
		return a, nil, true
	case key.Matches(msg, kh.keys.Right):
		a.moveSelection(1)
		return a, nil, true
	}

	img := a.selectedImage()
	switch {
	case key.Matches(msg, kh.keys.Select):
		if img == nil {
			return a, nil, true
		}
		return a, a.onImageClick(img), true
	case key.Matches(msg, kh.keys.Favorite):
		return a, kh.withImage(img, a.toggleFavorite), true
	case key.Matches(msg, kh.keys.Open):
		return a, kh.withImage(img, a.openImage), true
	case key.Matches(msg, kh.keys.OpenPage):
		return a, kh.withImage(img, a.openPage), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Favorite):
		return a, kh.withImage(a.current, a.toggleFavorite), true
	case key.Matches(msg, kh.keys.Open):
		return a, kh.withImage(a.current, a.openImage), true
	case key.Matches(msg, kh.keys.OpenPage):
		return a, kh.withImage(a.current, a.openPage), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleFavoritesCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	item, ok := a.favList.SelectedItem().(favoriteItem)
	if !ok {
		return a, nil, false
	}
	img := &item.fav.Image

	switch {
	case key.Matches(msg, kh.keys.Select):
		return a, a.onImageClick(img), true
	case key.Matches(msg, kh.keys.Delete):
		return a, a.deleteFavorite(img.ID), true
	case key.Matches(msg, kh.keys.Open):
		return a, a.openImage(img), true
	case key.Matches(msg, kh.keys.OpenPage):
		return a, a.openPage(img), true
	}
	return a, nil, false
}

func (kh *KeyHandler) withImage(img *storage.Image, action func(*storage.Image) tea.Cmd) tea.Cmd {
	if img == nil {
		return func() tea.Msg { return statusMsg{text: MsgNoSelection, kind: StatusWarn} }
	}
	return action(img)
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewSearch, ViewGallery:
		kh.app.scroller.Cancel()
		kh.app.grid, cmd = kh.app.grid.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		kh.app.detail, cmd = kh.app.detail.Update(msg)
		return kh.app, cmd

	case ViewFavorites:
		kh.app.favList, cmd = kh.app.favList.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	switch a.view {
	case ViewSearch:
		a.input.Blur()
		a.suggestion = ""
		a.view = ViewGallery
		return a, nil

	case ViewDetail:
		a.view = a.previousView
		a.current = nil
		return a, nil

	case ViewFavorites:
		a.view = ViewGallery
		return a, nil

	default:
		return kh.quit()
	}
}

// enterSearchMode focuses the search box above the results
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.view = ViewSearch
	a.input.CursorEnd()
	a.suggestion = suggestQuery(a.input.Value(), a.history)
	return a, a.input.Focus()
}

func (kh *KeyHandler) showFavorites() tea.Cmd {
	kh.app.view = ViewFavorites
	return kh.app.loadFavorites()
}

func (kh *KeyHandler) quit() (tea.Model, tea.Cmd) {
	kh.app.Close()
	return kh.app, tea.Quit
}

// GetHelpForCurrentView returns only our custom bindings (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewSearch:
		help := []key.Binding{k.Submit}
		if kh.app.suggestion != "" {
			help = append(help, key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", kh.app.suggestion)))
		}
		return append(help, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "results")))

	case ViewGallery:
		help := []key.Binding{k.Search}
		if len(kh.app.ctrl.Images()) > 0 {
			help = append(help, k.Select, k.Favorite, k.Open, k.OpenPage)
		}
		view := kh.app.ctrl.View()
		if view.ShowLoadMore {
			help = append(help, k.LoadMore)
		}
		if kh.app.ctrl.Session().ErrorMessage != "" {
			help = append(help, k.Retry)
		}
		return append(help, k.Favorites, k.Quit)

	case ViewDetail:
		return []key.Binding{k.Open, k.OpenPage, k.Favorite, k.Back}

	case ViewFavorites:
		if len(kh.app.favList.Items()) == 0 {
			return []key.Binding{k.Back}
		}
		return []key.Binding{k.Select, k.Open, k.OpenPage, k.Delete, k.Back}

	default:
		return nil
	}
}
