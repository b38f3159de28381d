package messaging

import (
	"encoding/json"

	"github.com/bnema/comet/internal/application/usecase"
)

// Actions understood by the router.
const (
	ActionSearch           = "search"
	ActionGetSuggestions   = "getSuggestions"
	ActionGetSettings      = "getSettings"
	ActionGetSearchEngines = "getSearchEngines"
	ActionSetSettings      = "setSettings"

	ActionOmniboxInputStarted   = "omniboxInputStarted"
	ActionOmniboxInputChanged   = "omniboxInputChanged"
	ActionOmniboxInputEntered   = "omniboxInputEntered"
	ActionOmniboxInputCancelled = "omniboxInputCancelled"
)

// SearchRequest asks for a search. A missing openInNewTab defers to settings.
type SearchRequest struct {
	Action       string `json:"action"`
	Query        string `json:"query"`
	OpenInNewTab *bool  `json:"openInNewTab,omitempty"`
}

// SearchResponse reports the outcome of a search.
type SearchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SuggestionsRequest asks for suggestions for a partial query.
type SuggestionsRequest struct {
	Action string `json:"action"`
	Query  string `json:"query"`
}

// SuggestionsResponse always carries a list, empty on failure.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

// OmniboxStartedResponse carries the default suggestion for the session.
type OmniboxStartedResponse struct {
	Description string `json:"description"`
}

// OmniboxChangedRequest carries the text typed after the keyword.
type OmniboxChangedRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// OmniboxChangedResponse carries the suggestion rows for the address bar.
type OmniboxChangedResponse struct {
	Suggestions []usecase.OmniboxEntry `json:"suggestions"`
}

// OmniboxEnteredRequest commits text with the browser's disposition.
type OmniboxEnteredRequest struct {
	Action      string                     `json:"action"`
	Text        string                     `json:"text"`
	Disposition usecase.OmniboxDisposition `json:"disposition"`
}

// ErrorResponse is sent for unknown actions and malformed payloads.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ParsePayload unmarshals a message into the target type.
func ParsePayload[T any](payload json.RawMessage) (T, error) {
	var target T
	err := json.Unmarshal(payload, &target)
	return target, err
}
