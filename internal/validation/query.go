package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQueryLength is the longest search term the image API accepts.
const MaxQueryLength = 100

// NormalizeQuery trims a search term, collapses inner whitespace and drops
// control characters. It returns an error when the result exceeds
// MaxQueryLength; an empty result is not an error.
func NormalizeQuery(input string) (string, error) {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(input) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}

	q := b.String()
	if n := utf8.RuneCountInString(q); n > MaxQueryLength {
		return "", fmt.Errorf("search term too long (%d characters, max %d)", n, MaxQueryLength)
	}
	return q, nil
}
