package gallery

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/glimpse/internal/config"
	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/pixabay"
	"github.com/pders01/glimpse/internal/storage"
)

const (
	defaultScrollDelay      = 500 * time.Millisecond
	defaultScrollMultiplier = 3
)

// ImageService returns one page of results per call for the active query
// and keeps the page cursor.
type ImageService interface {
	SetQuery(q string)
	GetImages(ctx context.Context) (*pixabay.Page, error)
	ResetPage()
}

// Notifier shows short lived notices. Calls must not block.
type Notifier interface {
	NotifySuccess(text string)
	NotifyError(text string)
}

// Scroller moves the result grid so freshly appended cards come into view.
type Scroller interface {
	ScrollToFirstCardHeightMultiple(multiplier int) tea.Cmd
}

type Options struct {
	ScrollDelay      time.Duration
	ScrollMultiplier int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ScrollDelay:      cfg.Gallery.ScrollDelay,
		ScrollMultiplier: cfg.Gallery.ScrollMultiplier,
	}
}

type nopNotifier struct{}

func (nopNotifier) NotifySuccess(string) {}
func (nopNotifier) NotifyError(string)   {}

// Controller drives one search session. All methods must be called from
// the bubbletea update loop; the page request itself runs in the returned
// command.
type Controller struct {
	service  ImageService
	notifier Notifier
	scroller Scroller
	opts     Options

	session Session

	ctx    context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc
	// gen identifies the request whose response is still wanted.
	gen uint64
	// scrollSeq invalidates pending scroll ticks when bumped.
	scrollSeq uint64
	closed    bool
	log       *debuglog.FieldLogger
}

// New builds a controller in the idle state. A nil notifier drops notices
// and a nil scroller disables scrolling.
func New(service ImageService, notifier Notifier, scroller Scroller, opts Options) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if opts.ScrollDelay <= 0 {
		opts.ScrollDelay = defaultScrollDelay
	}
	if opts.ScrollMultiplier == 0 {
		opts.ScrollMultiplier = defaultScrollMultiplier
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		service:  service,
		notifier: notifier,
		scroller: scroller,
		opts:     opts,
		session:  Session{Status: StatusIdle},
		ctx:      ctx,
		stop:     stop,
		log:      debuglog.With("component", "gallery"),
	}
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() Session {
	return c.session.clone()
}

func (c *Controller) Query() string {
	return c.session.Query
}

// View projects the session onto what the panel should draw.
func (c *Controller) View() Render {
	return Project(c.session)
}

// SetQuery switches to a new query. It does nothing when q equals the
// current query. Otherwise the accumulated images and the service cursor
// are reset together and the first page is requested. A blank query
// returns the session to idle without fetching.
func (c *Controller) SetQuery(q string) tea.Cmd {
	if c.closed || q == c.session.Query {
		return nil
	}

	c.log.Debugf("query changed %q -> %q", c.session.Query, q)

	c.invalidate()
	c.session.Images = nil
	c.service.ResetPage()
	c.session.Query = q

	if strings.TrimSpace(q) == "" {
		c.session.Status = StatusIdle
		c.session.ErrorMessage = ""
		c.session.FetchingMore = false
		return nil
	}

	return c.FetchNextPage()
}

// FetchNextPage requests the next page of the current query. It serves both
// the first page after a query change and every load-more.
func (c *Controller) FetchNextPage() tea.Cmd {
	if c.closed {
		return nil
	}

	if c.session.ErrorMessage != "" {
		c.session.ErrorMessage = ""
		c.session.Status = StatusLoading
	}
	if c.session.Status == StatusIdle {
		c.session.Status = StatusLoading
	}
	c.session.FetchingMore = true
	c.service.SetQuery(c.session.Query)

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	service := c.service

	c.log.Debugf("requesting page for %q (request %d)", c.session.Query, gen)

	return func() tea.Msg {
		defer cancel()
		page, err := service.GetImages(ctx)
		return pageLoadedMsg{gen: gen, page: page, err: err}
	}
}

// LoadMore is the load-more trigger. It only fires while the trigger is
// shown, so a request never overlaps one already in flight.
func (c *Controller) LoadMore() tea.Cmd {
	if !c.View().ShowLoadMore {
		return nil
	}
	return c.FetchNextPage()
}

// Retry repeats the last request after a failure or an end-of-results
// note. It does nothing while a request is in flight or when there is
// nothing to retry.
func (c *Controller) Retry() tea.Cmd {
	if c.session.FetchingMore || c.session.ErrorMessage == "" || strings.TrimSpace(c.session.Query) == "" {
		return nil
	}
	return c.FetchNextPage()
}

// Update consumes the controller's own messages and ignores the rest.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		return c.handlePage(msg)
	case scrollMsg:
		if c.closed || c.scroller == nil || msg.seq != c.scrollSeq {
			return nil
		}
		return c.scroller.ScrollToFirstCardHeightMultiple(c.opts.ScrollMultiplier)
	}
	return nil
}

// Close cancels the in-flight request and any pending scroll. The
// controller ignores all further input.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.invalidate()
	c.stop()
	c.closed = true
}

func (c *Controller) invalidate() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.scrollSeq++
}

func (c *Controller) handlePage(msg pageLoadedMsg) tea.Cmd {
	if c.closed || msg.gen != c.gen {
		c.log.Debugf("dropping stale response (request %d, current %d)", msg.gen, c.gen)
		return nil
	}
	c.cancel = nil

	var outcome Outcome
	if msg.err != nil {
		outcome = c.applyFailure(msg.err)
	} else {
		outcome = c.applyPage(msg.page)
	}
	c.session.FetchingMore = false

	c.log.Infof("query %q: %s, %d images, status %s", c.session.Query, outcome, len(c.session.Images), c.session.Status)

	if c.session.ErrorMessage != "" {
		return nil
	}
	return c.scheduleScroll()
}

func (c *Controller) applyPage(page *pixabay.Page) Outcome {
	outcome := ClassifyPage(page)
	switch outcome {
	case OutcomeNoResults:
		c.session.Status = StatusError
		c.session.ErrorMessage = MsgNoResults
	case OutcomeEndOfResults:
		c.notifier.NotifyError(MsgEndOfResults)
		c.session.ErrorMessage = MsgEndOfResults
	case OutcomePage:
		c.session.Images = append(c.session.Images, page.Hits...)
		c.session.Status = StatusSuccess
		if page.Number == 2 {
			c.notifier.NotifySuccess(FoundMessage(page.TotalHits))
		}
	default:
		c.notifier.NotifyError(MsgUnavailable)
		c.session.ErrorMessage = MsgUnavailable
	}
	return outcome
}

func (c *Controller) applyFailure(err error) Outcome {
	outcome, text := ClassifyError(err)
	c.log.Warnf("page request failed: %v", err)
	c.notifier.NotifyError(text)
	c.session.ErrorMessage = text
	return outcome
}

func (c *Controller) scheduleScroll() tea.Cmd {
	if c.scroller == nil {
		return nil
	}
	seq := c.scrollSeq
	return tea.Tick(c.opts.ScrollDelay, func(time.Time) tea.Msg {
		return scrollMsg{seq: seq}
	})
}

// Images is a shorthand for the accumulated results.
func (c *Controller) Images() []*storage.Image {
	return c.session.Images
}
