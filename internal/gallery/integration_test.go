package gallery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newImageAPI serves a fixed number of matches per query in pages and
// answers 400 past the last page, like the real endpoint.
func newImageAPI(t *testing.T, matches map[string]int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		perPage, _ := strconv.Atoi(q.Get("per_page"))
		total := matches[q.Get("q")]

		start := (page - 1) * perPage
		if total > 0 && start >= total {
			http.Error(w, `[ERROR 400] "page" is out of valid range.`, http.StatusBadRequest)
			return
		}

		resp := pixabay.Page{TotalHits: total, Total: total, Hits: []*storage.Image{}}
		for i := start; i < total && i < start+perPage; i++ {
			resp.Hits = append(resp.Hits, &storage.Image{ID: i + 1, Tags: q.Get("q")})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestController_WithImageAPI(t *testing.T) {
	server := newImageAPI(t, map[string]int{"cats": 30, "xyzzy123": 0})

	cfg := config.TestConfig()
	cfg.API.BaseURL = server.URL + "/api/"
	cfg.API.PerPage = 12
	require.NoError(t, cfg.Validate())

	client := pixabay.NewClient(cfg)
	notifier := &fakeNotifier{}
	ctrl := New(client, notifier, nil, OptionsFromConfig(cfg))
	defer ctrl.Close()

	run := func(cmd tea.Cmd) {
		t.Helper()
		require.NotNil(t, cmd)
		ctrl.Update(cmd())
	}

	run(ctrl.SetQuery("cats"))
	assert.Len(t, ctrl.Images(), 12)
	assert.Equal(t, 2, client.Page())

	run(ctrl.LoadMore())
	assert.Len(t, ctrl.Images(), 24)
	assert.Equal(t, []notice{{success: true, text: "We found 30 images!"}}, notifier.notices)

	run(ctrl.LoadMore())
	assert.Len(t, ctrl.Images(), 30)

	run(ctrl.LoadMore())
	s := ctrl.Session()
	assert.Len(t, s.Images, 30)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, MsgEndOfResults, s.ErrorMessage)
	assert.Equal(t, notice{text: MsgEndOfResults}, notifier.notices[len(notifier.notices)-1])

	run(ctrl.SetQuery("xyzzy123"))
	view := ctrl.View()
	assert.Equal(t, RenderError, view.Kind)
	assert.Equal(t, "Can't find image: xyzzy123", view.Text)
}

func TestController_ServerGone(t *testing.T) {
	server := newImageAPI(t, nil)
	cfg := config.TestConfig()
	cfg.API.BaseURL = server.URL + "/api/"
	server.Close()

	notifier := &fakeNotifier{}
	ctrl := New(pixabay.NewClient(cfg), notifier, nil, Options{})
	defer ctrl.Close()

	cmd := ctrl.SetQuery("cats")
	ctrl.Update(cmd())

	assert.Equal(t, MsgUnavailable, ctrl.Session().ErrorMessage)
	assert.Equal(t, []notice{{text: MsgUnavailable}}, notifier.notices)
}
