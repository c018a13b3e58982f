package tui

import "github.com/charmbracelet/lipgloss"

// StatusKind is the severity of a toast. Gallery notices arrive as
// StatusSuccess or StatusError; key and input problems use StatusWarn.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// badge returns the toast style and leading marker for k.
func (k StatusKind) badge() (lipgloss.Style, string) {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle, "✓ "
	case StatusWarn:
		return StatusWarnStyle, "! "
	case StatusError:
		return StatusErrorStyle, "✗ "
	default:
		return StatusInfoStyle, "• "
	}
}
