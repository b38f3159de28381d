package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/comet/internal/domain/url"
)

func TestBuiltin_Order(t *testing.T) {
	assert.Equal(t, []Key{Kagi, Google, DuckDuckGo, Yahoo, Ecosia}, Builtin().Keys())
	assert.Equal(t, 5, Builtin().Len())
}

func TestTable_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		wantKey  Key
		wantName string
	}{
		{name: "known engine", key: Google, wantKey: Google, wantName: "Google"},
		{name: "yahoo", key: Yahoo, wantKey: Yahoo, wantName: "Yahoo"},
		{name: "unknown falls back to kagi", key: "bing", wantKey: Kagi, wantName: "Kagi"},
		{name: "empty falls back to kagi", key: "", wantKey: Kagi, wantName: "Kagi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, cfg := Builtin().Resolve(tt.key)
			assert.Equal(t, tt.wantKey, k)
			assert.Equal(t, tt.wantName, cfg.Name)
		})
	}
}

func TestConfig_SuggestEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		want   string
		wantOK bool
	}{
		{
			name:   "prefer fallback wins over own endpoint",
			cfg:    Config{SuggestURL: "https://own/%s", FallbackSuggestURL: "https://fb/%s", PreferFallback: true},
			want:   "https://fb/%s",
			wantOK: true,
		},
		{
			name:   "own endpoint",
			cfg:    Config{SuggestURL: "https://own/%s", FallbackSuggestURL: "https://fb/%s"},
			want:   "https://own/%s",
			wantOK: true,
		},
		{
			name:   "fallback when own endpoint missing",
			cfg:    Config{FallbackSuggestURL: "https://fb/%s"},
			want:   "https://fb/%s",
			wantOK: true,
		},
		{
			name:   "prefer fallback without fallback uses own",
			cfg:    Config{SuggestURL: "https://own/%s", PreferFallback: true},
			want:   "https://own/%s",
			wantOK: true,
		},
		{
			name:   "no endpoint",
			cfg:    Config{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cfg.SuggestEndpoint()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKagi_AlwaysUsesGoogleSuggest(t *testing.T) {
	cfg, ok := Builtin().Get(Kagi)
	require.True(t, ok)

	u, ok := cfg.SuggestURLFor("go lang")
	require.True(t, ok)
	assert.Equal(t, "https://suggestqueries.google.com/complete/search?client=chrome&q=go%20lang", u)
}

func TestConfig_SearchURLFor(t *testing.T) {
	cfg, ok := Builtin().Get(Yahoo)
	require.True(t, ok)

	assert.Equal(t, "https://search.yahoo.com/search?p=cats%20%26%20dogs", cfg.SearchURLFor(" cats & dogs "))
	assert.Empty(t, cfg.SearchURLFor("   "))
}

func TestAllEngines_SearchURLEmbedsEncodedQuery(t *testing.T) {
	queries := []string{
		"golang",
		"  go generics  ",
		"100%s sure",
		"%s",
		"cats & dogs=1",
		"c++ #include",
		"café naïve 東京",
		"a/b?c",
	}

	for _, e := range Builtin().All() {
		prefix, suffix, found := strings.Cut(e.Config.SearchURL, url.Placeholder)
		require.True(t, found, e.Key)

		for _, q := range queries {
			t.Run(string(e.Key)+"/"+q, func(t *testing.T) {
				got := e.Config.SearchURLFor(q)
				encoded := url.EncodeQueryComponent(strings.TrimSpace(q))

				assert.Equal(t, prefix+encoded+suffix, got)
				assert.Contains(t, got, encoded)
				assert.NotContains(t, got, url.Placeholder)
			})
		}
	}
}

func TestAllEngines_SuggestURLEmbedsEncodedQuery(t *testing.T) {
	for _, e := range Builtin().All() {
		got, ok := e.Config.SuggestURLFor("100%s & more")
		require.True(t, ok, e.Key)
		assert.Contains(t, got, "100%25s%20%26%20more", e.Key)
		assert.NotContains(t, got, url.Placeholder, e.Key)
	}
}

func TestOpenSearchParser(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "google shape", body: `["go",["golang","go tutorial"],[],{}]`, want: []string{"golang", "go tutorial"}},
		{name: "duckduckgo list shape", body: `["go",["go","gopher"]]`, want: []string{"go", "gopher"}},
		{name: "non string items skipped", body: `["go",["a",1,null,"b"]]`, want: []string{"a", "b"}},
		{name: "index one not an array", body: `["go","nope"]`, want: []string{}},
		{name: "too short", body: `["go"]`, want: []string{}},
		{name: "object body", body: `{"gossip":{}}`, want: []string{}},
		{name: "invalid json", body: `<html>`, want: []string{}},
		{name: "empty body", body: ``, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OpenSearchParser{}.Parse([]byte(tt.body))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGossipParser(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "results keys",
			body: `{"gossip":{"qry":"go","results":[{"key":"golang"},{"key":"go kart"}]}}`,
			want: []string{"golang", "go kart"},
		},
		{name: "result without key skipped", body: `{"gossip":{"results":[{"x":1},{"key":"a"}]}}`, want: []string{"a"}},
		{name: "missing results", body: `{"gossip":{}}`, want: []string{}},
		{name: "missing gossip", body: `{}`, want: []string{}},
		{name: "array body", body: `["go",["golang"]]`, want: []string{}},
		{name: "invalid json", body: `nope`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GossipParser{}.Parse([]byte(tt.body))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_MapIsCopy(t *testing.T) {
	m := Builtin().Map()
	delete(m, Kagi)
	assert.True(t, Builtin().Has(Kagi))
}
