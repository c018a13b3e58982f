package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/storage"
)

type response struct {
	totalHits int
	hits      int
	err       error
}

// fakeService replays scripted responses and keeps a page cursor the way
// the real client does.
type fakeService struct {
	mu        sync.Mutex
	responses []response
	query     string
	page      int
	queries   []string
	resets    int
	calls     int
	pages     []int
	nextID    int
}

func newFakeService(responses ...response) *fakeService {
	return &fakeService{responses: responses, page: 1}
}

func (f *fakeService) SetQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = q
	f.queries = append(f.queries, q)
}

func (f *fakeService) ResetPage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.page = 1
	f.resets++
}

func (f *fakeService) GetImages(ctx context.Context) (*pixabay.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.pages = append(f.pages, f.page)
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("no scripted response")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	if r.err != nil {
		return nil, r.err
	}

	page := &pixabay.Page{TotalHits: r.totalHits, Total: r.totalHits, Number: f.page}
	for i := 0; i < r.hits; i++ {
		f.nextID++
		page.Hits = append(page.Hits, &storage.Image{ID: f.nextID, Tags: f.query})
	}
	f.page++
	return page, nil
}

type notice struct {
	success bool
	text    string
}

type fakeNotifier struct {
	notices []notice
}

func (n *fakeNotifier) NotifySuccess(text string) {
	n.notices = append(n.notices, notice{success: true, text: text})
}

func (n *fakeNotifier) NotifyError(text string) {
	n.notices = append(n.notices, notice{text: text})
}

type scrolledMsg struct{ multiplier int }

type fakeScroller struct {
	calls []int
}

func (s *fakeScroller) ScrollToFirstCardHeightMultiple(multiplier int) tea.Cmd {
	s.calls = append(s.calls, multiplier)
	return func() tea.Msg { return scrolledMsg{multiplier: multiplier} }
}

type harness struct {
	ctrl     *Controller
	service  *fakeService
	notifier *fakeNotifier
	scroller *fakeScroller
}

func newHarness(t *testing.T, responses ...response) *harness {
	t.Helper()
	h := &harness{
		service:  newFakeService(responses...),
		notifier: &fakeNotifier{},
		scroller: &fakeScroller{},
	}
	h.ctrl = New(h.service, h.notifier, h.scroller, Options{ScrollDelay: time.Millisecond, ScrollMultiplier: 3})
	t.Cleanup(h.ctrl.Close)
	return h
}

// settle runs a request command and feeds its result back, returning the
// follow-up command (the scroll tick, if any).
func (h *harness) settle(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a request command")
	}
	return h.ctrl.Update(cmd())
}
