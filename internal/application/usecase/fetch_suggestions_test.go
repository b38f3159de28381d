package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/comet/internal/application/port"
	portmocks "github.com/bnema/comet/internal/application/port/mocks"
	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/domain/entity"
)

type staticSettings struct {
	settings entity.Settings
}

func (s staticSettings) Get(context.Context) entity.Settings { return s.settings }

func settingsWith(mutate func(*entity.Settings)) staticSettings {
	s := entity.DefaultSettings()
	if mutate != nil {
		mutate(&s)
	}
	return staticSettings{settings: s}
}

type recordedSuggest struct {
	engine  string
	outcome port.SuggestOutcome
	count   int
}

type suggestRecorder struct {
	calls []recordedSuggest
}

func (r *suggestRecorder) RecordSuggest(engine string, outcome port.SuggestOutcome, count int) {
	r.calls = append(r.calls, recordedSuggest{engine: engine, outcome: outcome, count: count})
}

const googleSuggest = "https://suggestqueries.google.com/complete/search?client=chrome&q="

func TestFetchSuggestionsUseCase_KagiUsesGoogleFallback(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().
		Get(gomock.Any(), googleSuggest+"go%20lang").
		Return([]byte(`["go lang",["go language","go lang tutorial"]]`), nil)

	rec := &suggestRecorder{}
	uc := usecase.NewFetchSuggestionsUseCase(settingsWith(nil), client, nil, rec)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "go lang"})

	assert.Equal(t, []string{"go language", "go lang tutorial"}, out.Suggestions)
	assert.Equal(t, engine.Kagi, out.Engine)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, port.SuggestOutcomeOK, rec.calls[0].outcome)
	assert.Equal(t, 2, rec.calls[0].count)
}

func TestFetchSuggestionsUseCase_TruncatesToMax(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().
		Get(gomock.Any(), "https://duckduckgo.com/ac/?q=a&type=list").
		Return([]byte(`["a",["a1","a2","a3","a4","a5","a6","a7"]]`), nil)

	settings := settingsWith(func(s *entity.Settings) {
		s.SearchEngine = "duckduckgo"
		s.MaxSuggestions = 3
	})
	uc := usecase.NewFetchSuggestionsUseCase(settings, client, nil, nil)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "a"})

	assert.Equal(t, []string{"a1", "a2", "a3"}, out.Suggestions)
}

func TestFetchSuggestionsUseCase_NeverExceedsMax(t *testing.T) {
	body := []byte(`["q",["s1","s2","s3","s4","s5","s6","s7","s8","s9","s10","s11","s12"]]`)
	all := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11", "s12"}

	limits := append([]int{-5, -1, 0, 1}, entity.MaxSuggestionChoices...)
	limits = append(limits, len(all), 50)

	for _, limit := range limits {
		t.Run(fmt.Sprintf("max=%d", limit), func(t *testing.T) {
			client := portmocks.NewMockSuggestClient(gomock.NewController(t))
			client.EXPECT().Get(gomock.Any(), gomock.Any()).Return(body, nil)

			settings := settingsWith(func(s *entity.Settings) {
				s.SearchEngine = "google"
				s.MaxSuggestions = limit
			})
			uc := usecase.NewFetchSuggestionsUseCase(settings, client, nil, nil)
			out := uc.Execute(testContext(), usecase.FetchSuggestionsInput{Query: "q"})

			want := min(max(limit, 0), len(all))
			require.NotNil(t, out.Suggestions)
			assert.Len(t, out.Suggestions, want)
			assert.Equal(t, all[:want], out.Suggestions)
		})
	}
}

func TestFetchSuggestionsUseCase_YahooGossipShape(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().
		Get(gomock.Any(), "https://search.yahoo.com/sugg/gossip/gossip-us-ura/?command=cat&output=sd1").
		Return([]byte(`{"gossip":{"results":[{"key":"cats"},{"key":"cat food"}]}}`), nil)

	settings := settingsWith(func(s *entity.Settings) { s.SearchEngine = "yahoo" })
	uc := usecase.NewFetchSuggestionsUseCase(settings, client, nil, nil)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "cat"})

	assert.Equal(t, []string{"cats", "cat food"}, out.Suggestions)
}

func TestFetchSuggestionsUseCase_EmptyCasesMakeNoRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		settings staticSettings
	}{
		{name: "empty query", query: "", settings: settingsWith(nil)},
		{name: "whitespace query", query: "  \t ", settings: settingsWith(nil)},
		{
			name:     "suggestions disabled",
			query:    "golang",
			settings: settingsWith(func(s *entity.Settings) { s.ShowSuggestions = false }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := portmocks.NewMockSuggestClient(gomock.NewController(t))
			uc := usecase.NewFetchSuggestionsUseCase(tt.settings, client, nil, nil)

			out := uc.Execute(testContext(), usecase.FetchSuggestionsInput{Query: tt.query})

			require.NotNil(t, out.Suggestions)
			assert.Empty(t, out.Suggestions)
		})
	}
}

func TestFetchSuggestionsUseCase_NetworkErrorYieldsEmpty(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	rec := &suggestRecorder{}
	uc := usecase.NewFetchSuggestionsUseCase(settingsWith(nil), client, nil, rec)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "golang"})

	require.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, port.SuggestOutcomeError, rec.calls[0].outcome)
}

func TestFetchSuggestionsUseCase_MalformedBodyYieldsEmpty(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(`<html>rate limited</html>`), nil)

	uc := usecase.NewFetchSuggestionsUseCase(settingsWith(nil), client, nil, nil)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "golang"})

	require.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
}

func TestFetchSuggestionsUseCase_UnknownEngineUsesKagi(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	client.EXPECT().
		Get(gomock.Any(), googleSuggest+"x").
		Return([]byte(`["x",["xkcd"]]`), nil)

	settings := settingsWith(func(s *entity.Settings) { s.SearchEngine = "bing" })
	uc := usecase.NewFetchSuggestionsUseCase(settings, client, nil, nil)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "x"})

	assert.Equal(t, engine.Kagi, out.Engine)
	assert.Equal(t, []string{"xkcd"}, out.Suggestions)
}

func TestFetchSuggestionsUseCase_EngineWithoutEndpoint(t *testing.T) {
	ctx := testContext()
	client := portmocks.NewMockSuggestClient(gomock.NewController(t))
	table := engine.NewTable(engine.Entry{
		Key:    engine.Kagi,
		Config: engine.Config{Name: "Bare", SearchURL: "https://bare.example/?q=%s"},
	})

	uc := usecase.NewFetchSuggestionsUseCase(settingsWith(nil), client, table, nil)
	out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: "x"})

	require.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
}
