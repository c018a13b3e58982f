package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/gallery"
	"github.com/pders01/glimpse/internal/media"
	"github.com/pders01/glimpse/internal/search"
	"github.com/pders01/glimpse/internal/storage"
)

// Lines taken by everything around the body: header, search frame,
// separator, status bar and help line.
const chromeHeight = 7

// urlOpener hands URLs to external programs; *media.Launcher in practice.
type urlOpener interface {
	OpenImage(url string) error
	OpenPage(url string) error
}

type App struct {
	config     *config.Config
	store      *storage.Store
	ctrl       *gallery.Controller
	toaster    *Toaster
	scroller   *gridScroller
	launcher   urlOpener
	index      search.UpdateListener
	keyHandler *KeyHandler

	input   textinput.Model
	grid    viewport.Model
	detail  viewport.Model
	favList list.Model
	spinner spinner.Model
	help    help.Model

	view          View
	previousView  View
	selected      int
	current       *storage.Image
	loadingDetail bool
	favorites     map[int]bool
	history       []string
	suggestion    string

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int // Track the width used for the renderer
}

// NewApp wires the search panel around service. The returned app owns the
// controller; Close releases it.
func NewApp(store *storage.Store, cfg *config.Config, service gallery.ImageService) *App {
	ApplyColors(cfg.UI.Colors)

	ti := textinput.New()
	ti.Placeholder = "Search images..."
	ti.Prompt = "› "
	ti.Focus()

	favList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	favList.Title = "› favorites"
	favList.Styles.Title = TitleStyle
	favList.SetShowStatusBar(false)
	favList.SetFilteringEnabled(true)
	favList.SetShowHelp(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:       cfg,
		store:        store,
		toaster:      NewToaster(cfg.UI.ToastDuration),
		launcher:     media.NewLauncher(cfg),
		input:        ti,
		grid:         viewport.New(0, 0),
		detail:       viewport.New(0, 0),
		favList:      favList,
		spinner:      sp,
		help:         help.New(),
		view:         ViewSearch,
		previousView: ViewGallery,
		favorites:    make(map[int]bool),
	}

	// The scroller keeps a pointer to the grid viewport, so the app must
	// not copy itself after this point.
	app.scroller = newGridScroller(&app.grid, app.firstCardView)
	app.ctrl = gallery.New(service, app.toaster, app.scroller, gallery.OptionsFromConfig(cfg))
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// SetIndex registers a listener told about every favorite change, usually
// the full-text index.
func (a *App) SetIndex(l search.UpdateListener) {
	a.index = l
}

// Close stops the controller. It is safe to call more than once.
func (a *App) Close() {
	a.ctrl.Close()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120 // maximum for readability
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40 // minimum for readability
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.loadHistory(),
		a.loadFavorites(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{a.ctrl.Update(msg)}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.layout(msg.Width, msg.Height)

	case tea.KeyMsg:
		_, cmd := a.keyHandler.HandleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch a.view {
		case ViewSearch, ViewGallery:
			a.grid, cmd = a.grid.Update(msg)
		case ViewDetail:
			a.detail, cmd = a.detail.Update(msg)
		}
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case scrollFrameMsg:
		cmds = append(cmds, a.scroller.Frame(msg))

	case toastExpiredMsg:
		a.toaster.Expire(msg)

	case historyLoadedMsg:
		a.history = msg.queries
		if a.input.Focused() {
			a.suggestion = suggestQuery(a.input.Value(), a.history)
		}

	case favoritesLoadedMsg:
		a.favorites = make(map[int]bool, len(msg.favorites))
		items := make([]list.Item, len(msg.favorites))
		for i, f := range msg.favorites {
			a.favorites[f.Image.ID] = true
			items[i] = favoriteItem{fav: f}
		}
		cmds = append(cmds, a.favList.SetItems(items))
		if a.view == ViewFavorites && len(items) == 0 {
			a.toaster.Show(MsgNoFavorites, StatusInfo)
		}

	case favoriteToggledMsg:
		if msg.err != nil {
			a.toaster.Show(msg.err.Error(), StatusError)
			break
		}
		if msg.added {
			a.toaster.Show(MsgFavoriteAdded, StatusSuccess)
		} else {
			a.toaster.Show(MsgFavoriteRemoved, StatusInfo)
		}
		cmds = append(cmds, a.loadFavorites())

	case favoriteDeletedMsg:
		if msg.err != nil {
			a.toaster.Show(wrapErr("removing favorite", msg.err).Error(), StatusError)
			break
		}
		a.toaster.Show(MsgFavoriteRemoved, StatusInfo)
		cmds = append(cmds, a.loadFavorites())

	case detailRenderedMsg:
		if a.view == ViewDetail && a.current != nil && a.current.ID == msg.id {
			a.detail.SetContent(msg.content)
			a.detail.GotoTop()
			a.loadingDetail = false
		}

	case statusMsg:
		a.toaster.Show(msg.text, msg.kind)

	case errorMsg:
		a.toaster.Show(msg.err.Error(), StatusError)
	}

	a.refreshGrid()
	cmds = append(cmds, a.toaster.Cmd())
	return a, tea.Batch(cmds...)
}

func (a *App) layout(width, height int) {
	a.width = width
	a.height = height

	body := a.bodyHeight()
	a.grid.Width = width
	a.grid.Height = body
	// Detail and favorites replace the header and search frame too
	a.detail.Width = width
	a.detail.Height = body + 4
	a.favList.SetSize(width, body+4)

	inputWidth := width - 8 // Account for border, padding, and margins
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.input.Width = inputWidth
	a.help.Width = width
}

func (a *App) bodyHeight() int {
	h := a.height - chromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

func (a *App) cardWidth() int {
	if w := a.config.Gallery.CardWidth; w > 0 {
		return w
	}
	return 32
}

func (a *App) columns() int {
	return gridColumns(a.width, a.cardWidth(), a.config.Gallery.Columns)
}

// firstCardView renders the first result card, which sets the row height
// the scroller moves by.
func (a *App) firstCardView() string {
	images := a.ctrl.Images()
	if len(images) == 0 {
		return ""
	}
	return renderCard(images[0], a.cardWidth(), false, false)
}

// refreshGrid redraws the card grid and its footer into the viewport.
func (a *App) refreshGrid() {
	r := a.ctrl.View()
	if r.Kind != gallery.RenderGallery {
		a.grid.SetContent("")
		return
	}

	if a.selected >= len(r.Images) {
		a.selected = len(r.Images) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}

	grid := renderGrid(r.Images, a.columns(), a.cardWidth(), a.selected, func(id int) bool { return a.favorites[id] })

	var footer string
	switch {
	case r.ShowLoader:
		footer = a.spinner.View() + " " + renderMuted(MsgLoadingMore)
	case r.ShowLoadMore:
		footer = LoadMoreStyle.Render(fmt.Sprintf("Load more (%s)", a.config.Keys.Bindings.LoadMore))
	default:
		if note := a.ctrl.Session().ErrorMessage; note != "" {
			footer = ErrorMessageStyle.Render(note) + "  " + renderHelp(a.config.Keys.Bindings.Retry+": retry")
		}
	}

	a.grid.SetContent(lipgloss.JoinVertical(lipgloss.Left, grid, "", footer))
}

func (a *App) selectedImage() *storage.Image {
	images := a.ctrl.Images()
	if a.selected < 0 || a.selected >= len(images) {
		return nil
	}
	return images[a.selected]
}

// moveSelection shifts the selected card by delta and keeps it on screen.
func (a *App) moveSelection(delta int) {
	n := len(a.ctrl.Images())
	if n == 0 {
		return
	}
	next := a.selected + delta
	if next < 0 || next >= n {
		return
	}
	a.selected = next
	a.scroller.Cancel()
	a.ensureVisible()
}

func (a *App) ensureVisible() {
	card := a.firstCardView()
	if card == "" {
		return
	}
	rowHeight := lipgloss.Height(card)
	top := (a.selected / a.columns()) * rowHeight
	bottom := top + rowHeight

	switch {
	case top < a.grid.YOffset:
		a.grid.SetYOffset(top)
	case bottom > a.grid.YOffset+a.grid.Height:
		a.grid.SetYOffset(bottom - a.grid.Height)
	}
}

// onImageClick opens the detail view for img.
func (a *App) onImageClick(img *storage.Image) tea.Cmd {
	if a.view != ViewDetail {
		a.previousView = a.view
	}
	a.current = img
	a.view = ViewDetail
	a.loadingDetail = true
	return a.renderDetail(img)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, a.bodyHeight()+4, a.spinner.View()+" "+renderMuted("Loading details..."))
		} else {
			content = ContentWrapper(a.width, a.bodyHeight()+4).Render(a.detail.View())
		}
	case ViewFavorites:
		if len(a.favList.Items()) == 0 {
			content = renderCentered(a.width, a.bodyHeight()+4, renderMuted(MsgNoFavorites))
		} else {
			content = ContentWrapper(a.width, a.bodyHeight()+4).Render(a.favList.View())
		}
	default:
		content = lipgloss.JoinVertical(lipgloss.Top,
			renderHeader(CompactLogo, "", a.width),
			renderInputFrame(a.input.View(), a.input.Focused(), a.input.Width),
			a.galleryBody(),
		)
	}

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.getCustomStatusBar(), a.getHelpLine())
}

func (a *App) galleryBody() string {
	h := a.bodyHeight()
	r := a.ctrl.View()
	switch r.Kind {
	case gallery.RenderLoader:
		return renderCentered(a.width, h, a.spinner.View()+" "+renderMuted(MsgSearching))
	case gallery.RenderError:
		return renderCentered(a.width, h, ErrorMessageStyle.Render(r.Text))
	case gallery.RenderGallery:
		return ContentWrapper(a.width, h).Render(a.grid.View())
	default:
		return renderCentered(a.width, h, GetWelcomeMessage())
	}
}

func (a *App) getCustomStatusBar() string {
	if toast := a.toaster.View(a.width - 2); toast != "" {
		return StatusBarStyle.Width(a.width).Render(toast)
	}

	var text string
	switch a.view {
	case ViewFavorites:
		text = fmt.Sprintf("%d favorites", len(a.favList.Items()))
	case ViewDetail:
		if a.current != nil {
			text = cardTitle(a.current)
		}
	default:
		if n := len(a.ctrl.Images()); n > 0 {
			text = MsgImagesCount(n, a.ctrl.Query())
		}
	}
	return StatusBarStyle.Width(a.width).Render(truncateEnd(text, a.width-2))
}

func (a *App) getHelpLine() string {
	bindings := a.keyHandler.GetHelpForCurrentView()
	if len(bindings) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(a.help.ShortHelpView(bindings))
}

type favoriteItem struct {
	fav *storage.Favorite
}

func (i favoriteItem) Title() string {
	return FavoriteMarkStyle.Render("★ ") + cardTitle(&i.fav.Image)
}

func (i favoriteItem) Description() string {
	parts := []string{}
	if i.fav.Image.User != "" {
		parts = append(parts, "by "+i.fav.Image.User)
	}
	if i.fav.Query != "" {
		parts = append(parts, "found with “"+i.fav.Query+"”")
	}
	if !i.fav.SavedAt.IsZero() {
		parts = append(parts, TimeStyle.Render(i.fav.SavedAt.Format("Jan 2, 15:04")))
	}
	return renderMuted(strings.Join(parts, " • "))
}

func (i favoriteItem) FilterValue() string {
	return i.fav.Image.Tags + " " + i.fav.Image.User + " " + i.fav.Query
}
