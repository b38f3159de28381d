package engine

import "encoding/json"

// SuggestParser decodes an autocomplete response body into suggestion strings.
// Implementations never fail: malformed bodies yield an empty, non-nil slice.
type SuggestParser interface {
	Parse(body []byte) []string
}

// OpenSearchParser reads the OpenSearch suggestion shape
// [query, [suggestion, ...], ...] used by Google, DuckDuckGo and Ecosia.
type OpenSearchParser struct{}

// Parse returns the string elements of index 1.
func (OpenSearchParser) Parse(body []byte) []string {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil || len(data) < 2 {
		return []string{}
	}

	var items []any
	if err := json.Unmarshal(data[1], &items); err != nil {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GossipParser reads Yahoo's {"gossip":{"results":[{"key":...}]}} shape.
type GossipParser struct{}

type gossipResponse struct {
	Gossip *struct {
		Results []struct {
			Key *string `json:"key"`
		} `json:"results"`
	} `json:"gossip"`
}

// Parse returns the key of every result that carries one.
func (GossipParser) Parse(body []byte) []string {
	var resp gossipResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Gossip == nil {
		return []string{}
	}

	out := make([]string, 0, len(resp.Gossip.Results))
	for _, r := range resp.Gossip.Results {
		if r.Key != nil {
			out = append(out, *r.Key)
		}
	}
	return out
}
