package port

import "context"

//go:generate mockgen -source=suggest.go -destination=mocks/mock_suggest.go -package=mocks

// SuggestClient performs the single GET a suggestion lookup needs.
type SuggestClient interface {
	// Get fetches rawURL and returns the response body.
	// Non-2xx responses are returned as errors.
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// SuggestOutcome labels how a suggestion lookup ended.
type SuggestOutcome string

const (
	SuggestOutcomeOK       SuggestOutcome = "ok"
	SuggestOutcomeEmpty    SuggestOutcome = "empty"
	SuggestOutcomeDisabled SuggestOutcome = "disabled"
	SuggestOutcomeError    SuggestOutcome = "error"
)

// SuggestMetrics records suggestion lookups. Optional.
type SuggestMetrics interface {
	RecordSuggest(engine string, outcome SuggestOutcome, count int)
}

// SearchMetrics records dispatched searches. Optional.
type SearchMetrics interface {
	RecordSearch(engine, disposition string)
}
