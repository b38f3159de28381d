// Package engine defines the built-in search engine table.
package engine

import (
	"github.com/bnema/comet/internal/domain/url"
)

// Key identifies a search engine in settings and on the wire.
type Key string

// Built-in engine keys.
const (
	Kagi       Key = "kagi"
	Google     Key = "google"
	DuckDuckGo Key = "duckduckgo"
	Yahoo      Key = "yahoo"
	Ecosia     Key = "ecosia"
)

// DefaultKey is used when settings reference an unknown engine.
const DefaultKey = Kagi

// Config describes one search engine.
type Config struct {
	Name      string `json:"name"`
	SearchURL string `json:"searchUrl"`
	// SuggestURL is the engine's own autocomplete endpoint template.
	SuggestURL string `json:"suggestUrl,omitempty"`
	// FallbackSuggestURL is used when SuggestURL is empty, or always when
	// PreferFallback is set.
	FallbackSuggestURL string `json:"fallbackSuggestUrl,omitempty"`
	PreferFallback     bool   `json:"-"`

	// Icon and Color drive the engine tiles of the options surface.
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`

	// Parser decodes this engine's suggestion response body.
	Parser SuggestParser `json:"-"`
}

// SuggestEndpoint returns the suggestion URL template to query.
// ok is false when the engine has no suggestion endpoint at all.
func (c Config) SuggestEndpoint() (template string, ok bool) {
	switch {
	case c.PreferFallback && c.FallbackSuggestURL != "":
		return c.FallbackSuggestURL, true
	case c.SuggestURL != "":
		return c.SuggestURL, true
	case c.FallbackSuggestURL != "":
		return c.FallbackSuggestURL, true
	default:
		return "", false
	}
}

// SearchURLFor returns the navigation URL for query, or "" for a blank query.
func (c Config) SearchURLFor(query string) string {
	return url.BuildSearchURL(c.SearchURL, query)
}

// SuggestURLFor returns the suggestion request URL for query.
func (c Config) SuggestURLFor(query string) (string, bool) {
	template, ok := c.SuggestEndpoint()
	if !ok {
		return "", false
	}
	return url.FillTemplate(template, query), true
}

// ParseSuggestions decodes body with the engine parser.
// Engines without a parser use the OpenSearch array shape.
func (c Config) ParseSuggestions(body []byte) []string {
	if c.Parser == nil {
		return OpenSearchParser{}.Parse(body)
	}
	return c.Parser.Parse(body)
}
