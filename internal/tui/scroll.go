package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	scrollFrames        = 8
	scrollFrameInterval = 16 * time.Millisecond
)

type scrollFrameMsg struct {
	seq       int
	remaining int
	step      int
}

// gridScroller animates the result viewport down by whole card heights.
// It satisfies gallery.Scroller.
type gridScroller struct {
	viewport *viewport.Model
	// firstCard renders the first card of the grid, "" when there is none.
	firstCard func() string
	seq       int
}

func newGridScroller(vp *viewport.Model, firstCard func() string) *gridScroller {
	return &gridScroller{viewport: vp, firstCard: firstCard}
}

// ScrollToFirstCardHeightMultiple starts a smooth scroll of multiplier
// card heights. It is a no-op when no card is rendered.
func (s *gridScroller) ScrollToFirstCardHeightMultiple(multiplier int) tea.Cmd {
	card := s.firstCard()
	if card == "" || multiplier <= 0 {
		return nil
	}
	distance := lipgloss.Height(card) * multiplier

	s.seq++
	step := (distance + scrollFrames - 1) / scrollFrames
	msg := scrollFrameMsg{seq: s.seq, remaining: distance, step: step}
	return func() tea.Msg { return msg }
}

// Cancel stops a running animation.
func (s *gridScroller) Cancel() {
	s.seq++
}

// Frame advances the animation by one step and schedules the next.
func (s *gridScroller) Frame(msg scrollFrameMsg) tea.Cmd {
	if msg.seq != s.seq || msg.remaining <= 0 {
		return nil
	}
	step := msg.step
	if step > msg.remaining {
		step = msg.remaining
	}

	before := s.viewport.YOffset
	s.viewport.SetYOffset(before + step)
	if s.viewport.YOffset == before {
		// Bottom reached
		return nil
	}

	next := scrollFrameMsg{seq: msg.seq, remaining: msg.remaining - step, step: msg.step}
	if next.remaining <= 0 {
		return nil
	}
	return tea.Tick(scrollFrameInterval, func(time.Time) tea.Msg { return next })
}
