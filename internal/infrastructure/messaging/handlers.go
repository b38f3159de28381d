package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/entity"
	"github.com/bnema/comet/internal/logging"
)

// Services are the use cases the protocol exposes.
type Services struct {
	Settings *usecase.ManageSettingsUseCase
	Suggest  *usecase.FetchSuggestionsUseCase
	Dispatch *usecase.DispatchSearchUseCase
	Engines  *usecase.ListEnginesUseCase
	Omnibox  *usecase.OmniboxUseCase
}

// RegisterAll registers every protocol action backed by s. Omnibox actions
// are skipped when s.Omnibox is nil.
func RegisterAll(r *MessageRouter, s Services) error {
	if s.Settings == nil || s.Suggest == nil || s.Dispatch == nil || s.Engines == nil {
		return errors.New("messaging: settings, suggest, dispatch and engines services are required")
	}

	handlers := map[string]MessageHandlerFunc{
		ActionSearch:           searchHandler(s.Dispatch),
		ActionGetSuggestions:   suggestionsHandler(s.Suggest),
		ActionGetSettings:      getSettingsHandler(s.Settings),
		ActionGetSearchEngines: enginesHandler(s.Engines),
		ActionSetSettings:      setSettingsHandler(s.Settings),
	}
	if s.Omnibox != nil {
		handlers[ActionOmniboxInputStarted] = omniboxStartedHandler(s.Omnibox)
		handlers[ActionOmniboxInputChanged] = omniboxChangedHandler(s.Omnibox)
		handlers[ActionOmniboxInputEntered] = omniboxEnteredHandler(s.Omnibox)
		handlers[ActionOmniboxInputCancelled] = omniboxCancelledHandler(s.Omnibox)
	}

	for action, h := range handlers {
		if err := r.RegisterHandler(action, h); err != nil {
			return fmt.Errorf("register %s: %w", action, err)
		}
	}
	return nil
}

func searchHandler(uc *usecase.DispatchSearchUseCase) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := ParsePayload[SearchRequest](payload)
		if err != nil {
			return SearchResponse{Success: false, Error: err.Error()}, nil
		}

		if _, err := uc.Execute(ctx, usecase.DispatchSearchInput{
			Query:        req.Query,
			OpenInNewTab: req.OpenInNewTab,
		}); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("search failed")
			return SearchResponse{Success: false, Error: err.Error()}, nil
		}
		return SearchResponse{Success: true}, nil
	}
}

func suggestionsHandler(uc *usecase.FetchSuggestionsUseCase) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := ParsePayload[SuggestionsRequest](payload)
		if err != nil {
			return SuggestionsResponse{Suggestions: []string{}, Error: err.Error()}, nil
		}
		out := uc.Execute(ctx, usecase.FetchSuggestionsInput{Query: req.Query})
		return SuggestionsResponse{Suggestions: out.Suggestions}, nil
	}
}

func getSettingsHandler(uc *usecase.ManageSettingsUseCase) MessageHandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return uc.Get(ctx), nil
	}
}

func setSettingsHandler(uc *usecase.ManageSettingsUseCase) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		patch, err := ParsePayload[entity.SettingsPatch](payload)
		if err != nil {
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
		return uc.Update(ctx, patch)
	}
}

func enginesHandler(uc *usecase.ListEnginesUseCase) MessageHandlerFunc {
	return func(context.Context, json.RawMessage) (any, error) {
		return uc.Table(), nil
	}
}

func omniboxStartedHandler(uc *usecase.OmniboxUseCase) MessageHandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return OmniboxStartedResponse{Description: uc.InputStarted(ctx)}, nil
	}
}

func omniboxChangedHandler(uc *usecase.OmniboxUseCase) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := ParsePayload[OmniboxChangedRequest](payload)
		if err != nil {
			return nil, err
		}
		entries := uc.InputChanged(ctx, req.Text)
		if entries == nil {
			entries = []usecase.OmniboxEntry{}
		}
		return OmniboxChangedResponse{Suggestions: entries}, nil
	}
}

func omniboxEnteredHandler(uc *usecase.OmniboxUseCase) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := ParsePayload[OmniboxEnteredRequest](payload)
		if err != nil {
			return SearchResponse{Success: false, Error: err.Error()}, nil
		}
		if _, err := uc.InputEntered(ctx, req.Text, req.Disposition); err != nil {
			return SearchResponse{Success: false, Error: err.Error()}, nil
		}
		return SearchResponse{Success: true}, nil
	}
}

func omniboxCancelledHandler(uc *usecase.OmniboxUseCase) MessageHandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		uc.InputCancelled(ctx)
		return SearchResponse{Success: true}, nil
	}
}
