package model

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// sanitize strips terminal escapes and control characters from text that
// came from a remote suggestion endpoint.
func sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
