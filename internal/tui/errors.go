package tui

import "fmt"

// wrapErr names the panel action that failed ("saving history",
// "opening <url>") so the toast reads as a sentence. A nil err stays nil.
func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}
