package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/storage"
)

// stubService serves perPage images per page up to totalHits, then empty
// pages. A non-nil failNext fails the next request once.
type stubService struct {
	mu        sync.Mutex
	totalHits int
	perPage   int
	page      int
	query     string
	queries   []string
	failNext  error
}

func newStubService(totalHits, perPage int) *stubService {
	return &stubService{totalHits: totalHits, perPage: perPage, page: 1}
}

func (s *stubService) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.queries = append(s.queries, q)
}

func (s *stubService) ResetPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = 1
}

func (s *stubService) GetImages(ctx context.Context) (*pixabay.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}

	page := &pixabay.Page{TotalHits: s.totalHits, Total: s.totalHits, Number: s.page}
	for i := 0; i < s.perPage; i++ {
		n := (s.page-1)*s.perPage + i
		if n >= s.totalHits {
			break
		}
		page.Hits = append(page.Hits, &storage.Image{
			ID:            1000 + n,
			Tags:          fmt.Sprintf("%s, photo %d", s.query, n),
			User:          "tester",
			PageURL:       fmt.Sprintf("https://pixabay.com/photos/%d/", 1000+n),
			LargeImageURL: fmt.Sprintf("https://cdn.pixabay.com/%d_1280.jpg", 1000+n),
			ImageWidth:    1920,
			ImageHeight:   1080,
		})
	}
	s.page++
	return page, nil
}

func (s *stubService) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

var errOffline = errors.New("offline")

type recordingOpener struct {
	images []string
	pages  []string
}

func (r *recordingOpener) OpenImage(url string) error {
	r.images = append(r.images, url)
	return nil
}

func (r *recordingOpener) OpenPage(url string) error {
	r.pages = append(r.pages, url)
	return nil
}

func newTestApp(t *testing.T, svc *stubService) *App {
	t.Helper()

	cfg := config.TestConfig()
	// Long enough that no toast expires while a test drains commands
	cfg.UI.ToastDuration = time.Hour

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	app := NewApp(store, cfg, svc)
	app.launcher = &recordingOpener{}
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(app.Close)
	return app
}

// run executes cmd and feeds every resulting message back into the app
// until nothing is left. Commands that do not finish quickly (long ticks)
// are dropped.
func run(app *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg, ok := execute(next)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
		default:
			_, follow := app.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func execute(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(200 * time.Millisecond):
		return nil, false
	}
}

func press(app *App, keys ...string) {
	for _, k := range keys {
		_, cmd := app.Update(keyMsg(k))
		run(app, cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func searchFor(app *App, query string) {
	press(app, query, "enter")
}
