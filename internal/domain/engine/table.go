package engine

const googleSuggestURL = "https://suggestqueries.google.com/complete/search?client=chrome&q=%s"

// Table is an ordered, read-only set of engines.
type Table struct {
	order   []Key
	engines map[Key]Config
}

// Entry pairs an engine key with its configuration.
type Entry struct {
	Key    Key
	Config Config
}

// NewTable builds a table from entries, keeping their order.
// Later duplicates replace earlier ones but keep the first position.
func NewTable(entries ...Entry) *Table {
	t := &Table{
		order:   make([]Key, 0, len(entries)),
		engines: make(map[Key]Config, len(entries)),
	}
	for _, e := range entries {
		if _, exists := t.engines[e.Key]; !exists {
			t.order = append(t.order, e.Key)
		}
		t.engines[e.Key] = e.Config
	}
	return t
}

var builtin = NewTable(
	Entry{Kagi, Config{
		Name:      "Kagi",
		SearchURL: "https://kagi.com/search?q=%s",
		// Kagi has no public suggest API; its own endpoint needs a session token.
		SuggestURL:         "https://kagi.com/api/autosuggest?q=%s",
		FallbackSuggestURL: googleSuggestURL,
		PreferFallback:     true,
		Icon:               "🔶",
		Color:              "#ff8c00",
		Parser:             OpenSearchParser{},
	}},
	Entry{Google, Config{
		Name:       "Google",
		SearchURL:  "https://www.google.com/search?q=%s",
		SuggestURL: googleSuggestURL,
		Icon:       "🔍",
		Color:      "#4285f4",
		Parser:     OpenSearchParser{},
	}},
	Entry{DuckDuckGo, Config{
		Name:       "DuckDuckGo",
		SearchURL:  "https://duckduckgo.com/?q=%s",
		SuggestURL: "https://duckduckgo.com/ac/?q=%s&type=list",
		Icon:       "🦆",
		Color:      "#de5833",
		Parser:     OpenSearchParser{},
	}},
	Entry{Yahoo, Config{
		Name:       "Yahoo",
		SearchURL:  "https://search.yahoo.com/search?p=%s",
		SuggestURL: "https://search.yahoo.com/sugg/gossip/gossip-us-ura/?command=%s&output=sd1",
		Icon:       "📧",
		Color:      "#6001d2",
		Parser:     GossipParser{},
	}},
	Entry{Ecosia, Config{
		Name:       "Ecosia",
		SearchURL:  "https://www.ecosia.org/search?q=%s",
		SuggestURL: "https://ac.ecosia.org/autocomplete?q=%s&type=list",
		Icon:       "🌳",
		Color:      "#36acb8",
		Parser:     OpenSearchParser{},
	}},
)

// Builtin returns the process-wide engine table.
func Builtin() *Table {
	return builtin
}

// Get looks up an engine by key.
func (t *Table) Get(key Key) (Config, bool) {
	cfg, ok := t.engines[key]
	return cfg, ok
}

// Has reports whether key names an engine in the table.
func (t *Table) Has(key Key) bool {
	_, ok := t.engines[key]
	return ok
}

// Resolve returns the engine for key, falling back to DefaultKey.
func (t *Table) Resolve(key Key) (Key, Config) {
	if cfg, ok := t.engines[key]; ok {
		return key, cfg
	}
	return DefaultKey, t.engines[DefaultKey]
}

// Keys returns engine keys in table order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.order))
	copy(keys, t.order)
	return keys
}

// All returns every engine in table order.
func (t *Table) All() []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		entries = append(entries, Entry{Key: k, Config: t.engines[k]})
	}
	return entries
}

// Map returns a copy of the table keyed by engine key, the shape served by
// the getSearchEngines action.
func (t *Table) Map() map[Key]Config {
	m := make(map[Key]Config, len(t.engines))
	for k, v := range t.engines {
		m[k] = v
	}
	return m
}

// Len returns the number of engines.
func (t *Table) Len() int {
	return len(t.order)
}
