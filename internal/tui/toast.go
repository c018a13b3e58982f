package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultToastDuration = 3 * time.Second

type toast struct {
	text string
	kind StatusKind
	seq  int
}

type toastExpiredMsg struct {
	seq int
}

// Toaster shows one notice at a time in the status bar. It satisfies
// gallery.Notifier; calls only record the notice, and the app schedules
// its expiry through Cmd on the same update.
type Toaster struct {
	current  *toast
	seq      int
	pending  bool
	duration time.Duration
}

func NewToaster(duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = defaultToastDuration
	}
	return &Toaster{duration: duration}
}

func (t *Toaster) NotifySuccess(text string) { t.Show(text, StatusSuccess) }
func (t *Toaster) NotifyError(text string)   { t.Show(text, StatusError) }

// Show replaces the current notice.
func (t *Toaster) Show(text string, kind StatusKind) {
	t.seq++
	t.current = &toast{text: text, kind: kind, seq: t.seq}
	t.pending = true
}

// Cmd returns the expiry tick for a notice shown since the last call.
func (t *Toaster) Cmd() tea.Cmd {
	if !t.pending || t.current == nil {
		return nil
	}
	t.pending = false
	seq := t.current.seq
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Expire clears the notice if it is still the one the tick was for.
func (t *Toaster) Expire(msg toastExpiredMsg) {
	if t.current != nil && t.current.seq == msg.seq {
		t.current = nil
	}
}

// Current reports the visible notice.
func (t *Toaster) Current() (string, StatusKind, bool) {
	if t.current == nil {
		return "", StatusInfo, false
	}
	return t.current.text, t.current.kind, true
}

// Clear drops the visible notice immediately.
func (t *Toaster) Clear() {
	t.current = nil
	t.pending = false
}

func (t *Toaster) View(width int) string {
	text, kind, ok := t.Current()
	if !ok {
		return ""
	}
	style, prefix := kind.badge()
	return style.Render(truncateEnd(prefix+text, width))
}
