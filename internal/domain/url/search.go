package url

import "strings"

// Placeholder marks where the encoded query goes in an engine URL template.
const Placeholder = "%s"

const upperhex = "0123456789ABCDEF"

// EncodeQueryComponent percent-encodes s the way browsers encode a single
// URI component: everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is
// escaped as UTF-8 bytes. Spaces become %20, never '+'.
//
// Examples:
//
//	"golang"        → "golang"
//	"rust async"    → "rust%20async"
//	"a&b=c"         → "a%26b%3Dc"
//	"café"          → "caf%C3%A9"
func EncodeQueryComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// FillTemplate substitutes the first placeholder in template with the encoded
// query. The query is not trimmed.
func FillTemplate(template, query string) string {
	return strings.Replace(template, Placeholder, EncodeQueryComponent(query), 1)
}

// BuildSearchURL constructs the navigation URL for a typed query.
// The query is trimmed before encoding; an empty result yields "".
//
// Parameters:
//   - template: engine search URL template (e.g., "https://kagi.com/search?q=%s")
//   - query: user input (e.g., "  go generics ")
//
// Returns the resolved URL (e.g., "https://kagi.com/search?q=go%20generics").
func BuildSearchURL(template, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return FillTemplate(template, query)
}
