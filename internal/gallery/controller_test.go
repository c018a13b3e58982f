package gallery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewController_Idle(t *testing.T) {
	h := newHarness(t)

	s := h.ctrl.Session()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Images)
	assert.Equal(t, RenderNothing, h.ctrl.View().Kind)
	assert.Nil(t, h.ctrl.LoadMore(), "no trigger is shown while idle")
}

func TestScenario_FirstPage(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	cmd := h.ctrl.SetQuery("cats")
	require.NotNil(t, cmd)

	s := h.ctrl.Session()
	assert.Equal(t, StatusLoading, s.Status)
	assert.True(t, s.FetchingMore)
	assert.Equal(t, RenderLoader, h.ctrl.View().Kind)

	next := h.settle(t, cmd)

	s = h.ctrl.Session()
	assert.Len(t, s.Images, 20)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.False(t, s.FetchingMore)
	assert.Empty(t, s.ErrorMessage)
	assert.Empty(t, h.notifier.notices)
	assert.NotNil(t, next, "a successful page schedules a scroll")

	view := h.ctrl.View()
	assert.Equal(t, RenderGallery, view.Kind)
	assert.True(t, view.ShowLoadMore)
	assert.False(t, view.ShowLoader)
}

func TestScenario_SecondPageNotifies(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20}, response{totalHits: 50, hits: 20}, response{totalHits: 50, hits: 10})

	h.settle(t, h.ctrl.SetQuery("cats"))

	cmd := h.ctrl.LoadMore()
	require.NotNil(t, cmd)
	view := h.ctrl.View()
	assert.Equal(t, RenderGallery, view.Kind)
	assert.True(t, view.ShowLoader)
	assert.False(t, view.ShowLoadMore)

	h.settle(t, cmd)

	s := h.ctrl.Session()
	assert.Len(t, s.Images, 40)
	assert.Equal(t, []notice{{success: true, text: "We found 50 images!"}}, h.notifier.notices)

	h.settle(t, h.ctrl.LoadMore())
	assert.Len(t, h.ctrl.Session().Images, 50)
	assert.Len(t, h.notifier.notices, 1, "only the second page announces the total")
	assert.Equal(t, []int{1, 2, 3}, h.service.pages)
}

func TestScenario_NoResults(t *testing.T) {
	h := newHarness(t, response{totalHits: 0})

	next := h.settle(t, h.ctrl.SetQuery("xyzzy123"))

	s := h.ctrl.Session()
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "Can't find image", s.ErrorMessage)
	assert.Empty(t, h.notifier.notices)
	assert.Nil(t, next, "an annotated result does not scroll")

	view := h.ctrl.View()
	assert.Equal(t, RenderError, view.Kind)
	assert.Equal(t, "Can't find image: xyzzy123", view.Text)
}

func TestNoResults_DiscardsNothingButForcesError(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20}, response{totalHits: 0})

	h.settle(t, h.ctrl.SetQuery("cats"))
	h.settle(t, h.ctrl.LoadMore())

	s := h.ctrl.Session()
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, MsgNoResults, s.ErrorMessage)
	assert.Len(t, s.Images, 20)
}

func TestScenario_EndOfResults(t *testing.T) {
	h := newHarness(t,
		response{totalHits: 50, hits: 20},
		response{totalHits: 50, hits: 20},
		response{totalHits: 50, hits: 10},
		response{totalHits: 50, hits: 0},
	)

	h.settle(t, h.ctrl.SetQuery("cats"))
	h.settle(t, h.ctrl.LoadMore())
	h.settle(t, h.ctrl.LoadMore())
	before := h.ctrl.Session().Images
	h.notifier.notices = nil

	next := h.settle(t, h.ctrl.LoadMore())

	s := h.ctrl.Session()
	assert.Equal(t, before, s.Images)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, MsgEndOfResults, s.ErrorMessage)
	assert.Equal(t, []notice{{text: MsgEndOfResults}}, h.notifier.notices)
	assert.Nil(t, next)

	view := h.ctrl.View()
	assert.Equal(t, RenderGallery, view.Kind)
	assert.Len(t, view.Images, 50)
	assert.False(t, view.ShowLoadMore, "the annotation hides the trigger")
	assert.Nil(t, h.ctrl.LoadMore())
}

func TestScenario_BadRequest(t *testing.T) {
	h := newHarness(t, response{err: &pixabay.FetchError{StatusCode: http.StatusBadRequest}})

	next := h.settle(t, h.ctrl.SetQuery("cats"))

	s := h.ctrl.Session()
	assert.Equal(t, MsgEndOfResults, s.ErrorMessage)
	assert.Equal(t, []notice{{text: MsgEndOfResults}}, h.notifier.notices)
	assert.Equal(t, StatusLoading, s.Status, "failures leave the status alone")
	assert.False(t, s.FetchingMore)
	assert.Nil(t, next)
}

func TestScenario_NoResponse(t *testing.T) {
	h := newHarness(t, response{err: &pixabay.FetchError{Err: errors.New("connection refused")}})

	h.settle(t, h.ctrl.SetQuery("cats"))

	s := h.ctrl.Session()
	assert.Equal(t, MsgUnavailable, s.ErrorMessage)
	assert.Equal(t, []notice{{text: MsgUnavailable}}, h.notifier.notices)
}

func TestFailureAfterPagesKeepsGallery(t *testing.T) {
	h := newHarness(t,
		response{totalHits: 50, hits: 20},
		response{err: &pixabay.FetchError{StatusCode: http.StatusServiceUnavailable}},
		response{totalHits: 50, hits: 20},
	)

	h.settle(t, h.ctrl.SetQuery("cats"))
	h.settle(t, h.ctrl.LoadMore())

	s := h.ctrl.Session()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, MsgUnavailable, s.ErrorMessage)
	assert.Len(t, s.Images, 20)
	assert.Nil(t, h.ctrl.LoadMore())

	// Retrying clears the note and shows the loader until the page lands.
	cmd := h.ctrl.Retry()
	require.NotNil(t, cmd)
	assert.Equal(t, StatusLoading, h.ctrl.Session().Status)
	assert.Empty(t, h.ctrl.Session().ErrorMessage)

	h.settle(t, cmd)
	s = h.ctrl.Session()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Len(t, s.Images, 40)
	assert.Equal(t, []int{1, 2, 2}, h.service.pages, "a failed page is requested again")
}

func TestRetry_NothingToRetry(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	assert.Nil(t, h.ctrl.Retry())
	h.settle(t, h.ctrl.SetQuery("cats"))
	assert.Nil(t, h.ctrl.Retry())
}

func TestSetQuery_ResetsImagesAndCursor(t *testing.T) {
	h := newHarness(t,
		response{totalHits: 50, hits: 20},
		response{totalHits: 50, hits: 20},
		response{totalHits: 8, hits: 8},
	)

	h.settle(t, h.ctrl.SetQuery("cats"))
	h.settle(t, h.ctrl.LoadMore())
	require.Len(t, h.ctrl.Session().Images, 40)

	cmd := h.ctrl.SetQuery("dogs")
	require.NotNil(t, cmd)
	assert.Empty(t, h.ctrl.Session().Images)
	assert.Equal(t, 2, h.service.resets)
	assert.Equal(t, "dogs", h.ctrl.Query())

	h.settle(t, cmd)
	assert.Len(t, h.ctrl.Session().Images, 8)
	assert.Equal(t, []int{1, 2, 1}, h.service.pages)
	assert.Equal(t, []string{"cats", "cats", "dogs"}, h.service.queries)
}

func TestSetQuery_SameValueIsIdempotent(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	h.settle(t, h.ctrl.SetQuery("cats"))
	assert.Nil(t, h.ctrl.SetQuery("cats"))

	assert.Equal(t, 1, h.service.resets)
	assert.Equal(t, 1, h.service.calls)
	assert.Len(t, h.ctrl.Session().Images, 20)
}

func TestSetQuery_BlankReturnsToIdle(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	h.settle(t, h.ctrl.SetQuery("cats"))
	assert.Nil(t, h.ctrl.SetQuery("   "))

	s := h.ctrl.Session()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Images)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, RenderNothing, h.ctrl.View().Kind)
	assert.Equal(t, 1, h.service.calls)
}

func TestSetQuery_ClearsAnnotation(t *testing.T) {
	h := newHarness(t, response{totalHits: 0}, response{totalHits: 5, hits: 5})

	h.settle(t, h.ctrl.SetQuery("xyzzy123"))
	require.Equal(t, StatusError, h.ctrl.Session().Status)

	cmd := h.ctrl.SetQuery("cats")
	assert.Equal(t, StatusLoading, h.ctrl.Session().Status)
	assert.Empty(t, h.ctrl.Session().ErrorMessage)

	h.settle(t, cmd)
	assert.Equal(t, StatusSuccess, h.ctrl.Session().Status)
}

func TestStaleResponseIsDropped(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20}, response{totalHits: 3, hits: 3})

	catsCmd := h.ctrl.SetQuery("cats")
	dogsCmd := h.ctrl.SetQuery("dogs")

	// The cats response lands after the switch and must not leak in.
	assert.Nil(t, h.ctrl.Update(catsCmd()))
	s := h.ctrl.Session()
	assert.Empty(t, s.Images)
	assert.Equal(t, StatusLoading, s.Status)
	assert.True(t, s.FetchingMore)

	h.settle(t, dogsCmd)
	s = h.ctrl.Session()
	assert.Len(t, s.Images, 3)
	assert.Equal(t, "dogs", s.Query)
}

func TestSetQuery_CancelsInFlightRequest(t *testing.T) {
	svc := &blockingService{started: make(chan struct{})}
	ctrl := New(svc, nil, nil, Options{})
	defer ctrl.Close()

	cmd := ctrl.SetQuery("cats")
	done := make(chan error, 1)
	go func() {
		msg := cmd()
		done <- msg.(pageLoadedMsg).err
	}()

	<-svc.started
	ctrl.SetQuery("")

	assert.ErrorIs(t, <-done, context.Canceled)
}

type blockingService struct {
	started chan struct{}
}

func (b *blockingService) SetQuery(string) {}
func (b *blockingService) ResetPage()      {}
func (b *blockingService) GetImages(ctx context.Context) (*pixabay.Page, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestScrollAfterSuccessfulPage(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	tick := h.settle(t, h.ctrl.SetQuery("cats"))
	require.NotNil(t, tick)

	cmd := h.ctrl.Update(tick())
	require.NotNil(t, cmd)
	assert.Equal(t, []int{3}, h.scroller.calls)
	assert.Equal(t, scrolledMsg{multiplier: 3}, cmd())
}

func TestPendingScrollCancelledByQueryChange(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20}, response{totalHits: 5, hits: 5})

	tick := h.settle(t, h.ctrl.SetQuery("cats"))
	require.NotNil(t, tick)
	h.ctrl.SetQuery("dogs")

	assert.Nil(t, h.ctrl.Update(tick()))
	assert.Empty(t, h.scroller.calls)
}

func TestPendingScrollCancelledByClose(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20})

	tick := h.settle(t, h.ctrl.SetQuery("cats"))
	require.NotNil(t, tick)
	h.ctrl.Close()

	assert.Nil(t, h.ctrl.Update(tick()))
	assert.Empty(t, h.scroller.calls)
	assert.Nil(t, h.ctrl.SetQuery("dogs"))
	assert.Nil(t, h.ctrl.FetchNextPage())
}

func TestLoadMoreWhileFetchingIsIgnored(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 20}, response{totalHits: 50, hits: 20})

	h.settle(t, h.ctrl.SetQuery("cats"))
	cmd := h.ctrl.LoadMore()
	require.NotNil(t, cmd)

	assert.Nil(t, h.ctrl.LoadMore())
	assert.Nil(t, h.ctrl.LoadMore())

	h.settle(t, cmd)
	assert.Equal(t, 2, h.service.calls)
}

func TestNilScrollerSkipsScroll(t *testing.T) {
	svc := newFakeService(response{totalHits: 50, hits: 20})
	ctrl := New(svc, nil, nil, Options{})
	defer ctrl.Close()

	cmd := ctrl.SetQuery("cats")
	assert.Nil(t, ctrl.Update(cmd()))
	assert.Len(t, ctrl.Images(), 20)
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.ctrl.Update("unrelated"))
	assert.Equal(t, StatusIdle, h.ctrl.Session().Status)
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	h := newHarness(t, response{totalHits: 50, hits: 2})
	h.settle(t, h.ctrl.SetQuery("cats"))

	s := h.ctrl.Session()
	s.Images[0] = nil
	assert.NotNil(t, h.ctrl.Session().Images[0])
}
