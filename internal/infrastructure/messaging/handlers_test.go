package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/comet/internal/application/port"
	portmocks "github.com/bnema/comet/internal/application/port/mocks"
	"github.com/bnema/comet/internal/application/usecase"
	repomocks "github.com/bnema/comet/internal/domain/repository/mocks"
	"github.com/bnema/comet/internal/infrastructure/messaging"
)

type fixture struct {
	router *messaging.MessageRouter
	repo   *repomocks.MockSettingsRepository
	client *portmocks.MockSuggestClient
	tabs   *portmocks.MockTabController
}

func newFixture(t *testing.T, stored map[string]json.RawMessage) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		router: messaging.NewMessageRouter(),
		repo:   repomocks.NewMockSettingsRepository(ctrl),
		client: portmocks.NewMockSuggestClient(ctrl),
		tabs:   portmocks.NewMockTabController(ctrl),
	}
	if stored == nil {
		stored = map[string]json.RawMessage{}
	}
	f.repo.EXPECT().Load(gomock.Any()).Return(stored, nil).AnyTimes()

	settings := usecase.NewManageSettingsUseCase(f.repo, nil)
	suggest := usecase.NewFetchSuggestionsUseCase(settings, f.client, nil, nil)
	dispatch := usecase.NewDispatchSearchUseCase(settings, f.tabs, nil, nil)

	require.NoError(t, messaging.RegisterAll(f.router, messaging.Services{
		Settings: settings,
		Suggest:  suggest,
		Dispatch: dispatch,
		Engines:  usecase.NewListEnginesUseCase(settings, nil),
		Omnibox:  usecase.NewOmniboxUseCase(settings, suggest, dispatch, nil),
	}))
	return f
}

func (f *fixture) dispatch(t *testing.T, msg string) string {
	t.Helper()
	out, err := f.router.Dispatch(testCtx(), []byte(msg))
	require.NoError(t, err)
	return string(out)
}

func TestRegisterAll_RequiresServices(t *testing.T) {
	err := messaging.RegisterAll(messaging.NewMessageRouter(), messaging.Services{})
	require.Error(t, err)
}

func TestSearchAction(t *testing.T) {
	f := newFixture(t, nil)
	f.tabs.EXPECT().ActiveTab(gomock.Any()).Return(&port.Tab{ID: "7"}, nil)
	f.tabs.EXPECT().Navigate(gomock.Any(), "7", "https://kagi.com/search?q=rust%20vs%20go").Return(nil)

	out := f.dispatch(t, `{"action":"search","query":"rust vs go","openInNewTab":false}`)

	assert.JSONEq(t, `{"success":true}`, out)
}

func TestSearchAction_Failure(t *testing.T) {
	f := newFixture(t, nil)
	f.tabs.EXPECT().OpenTab(gomock.Any(), gomock.Any()).Return(errors.New("browser gone"))

	out := f.dispatch(t, `{"action":"search","query":"x","openInNewTab":true}`)

	var resp messaging.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "browser gone")
}

func TestSearchAction_EmptyQuerySucceeds(t *testing.T) {
	f := newFixture(t, nil)

	out := f.dispatch(t, `{"action":"search","query":"   "}`)

	assert.JSONEq(t, `{"success":true}`, out)
}

func TestGetSuggestionsAction(t *testing.T) {
	f := newFixture(t, map[string]json.RawMessage{"searchEngine": json.RawMessage(`"duckduckgo"`)})
	f.client.EXPECT().
		Get(gomock.Any(), "https://duckduckgo.com/ac/?q=go&type=list").
		Return([]byte(`["go",["golang","gopher"]]`), nil)

	out := f.dispatch(t, `{"action":"getSuggestions","query":"go"}`)

	assert.JSONEq(t, `{"suggestions":["golang","gopher"]}`, out)
}

func TestGetSuggestionsAction_EmptyQuery(t *testing.T) {
	f := newFixture(t, nil)

	out := f.dispatch(t, `{"action":"getSuggestions","query":""}`)

	assert.JSONEq(t, `{"suggestions":[]}`, out)
}

func TestGetSettingsAction(t *testing.T) {
	f := newFixture(t, map[string]json.RawMessage{"maxSuggestions": json.RawMessage(`8`)})

	out := f.dispatch(t, `{"action":"getSettings"}`)

	assert.JSONEq(t, `{"searchEngine":"kagi","showSuggestions":true,"openInNewTab":false,"maxSuggestions":8}`, out)
}

func TestGetSettingsAction_StorageFailureServesDefaults(t *testing.T) {
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("locked"))
	settings := usecase.NewManageSettingsUseCase(repo, nil)

	r := messaging.NewMessageRouter()
	require.NoError(t, r.RegisterHandler(messaging.ActionGetSettings, messaging.MessageHandlerFunc(
		func(ctx context.Context, _ json.RawMessage) (any, error) { return settings.Get(ctx), nil })))

	out, err := r.Dispatch(testCtx(), []byte(`{"action":"getSettings"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"searchEngine":"kagi","showSuggestions":true,"openInNewTab":false,"maxSuggestions":5}`, string(out))
}

func TestGetSearchEnginesAction(t *testing.T) {
	f := newFixture(t, nil)

	out := f.dispatch(t, `{"action":"getSearchEngines"}`)

	var table map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Len(t, table, 5)
	assert.Equal(t, "Kagi", table["kagi"]["name"])
	assert.Equal(t, "https://kagi.com/search?q=%s", table["kagi"]["searchUrl"])
	assert.Equal(t, "https://suggestqueries.google.com/complete/search?client=chrome&q=%s", table["kagi"]["fallbackSuggestUrl"])
}

func TestSetSettingsAction(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	out := f.dispatch(t, `{"action":"setSettings","openInNewTab":true}`)

	assert.JSONEq(t, `{"searchEngine":"kagi","showSuggestions":true,"openInNewTab":true,"maxSuggestions":5}`, out)
}

func TestSetSettingsAction_Invalid(t *testing.T) {
	f := newFixture(t, nil)

	out := f.dispatch(t, `{"action":"setSettings","searchEngine":"bing"}`)

	var resp messaging.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestOmniboxActions(t *testing.T) {
	f := newFixture(t, map[string]json.RawMessage{"searchEngine": json.RawMessage(`"google"`)})
	f.client.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(`["t",["tom & jerry"]]`), nil)
	f.tabs.EXPECT().OpenTab(gomock.Any(), "https://www.google.com/search?q=tom%20%26%20jerry").Return(nil)

	assert.JSONEq(t, `{"description":"Search Google: %s"}`,
		f.dispatch(t, `{"action":"omniboxInputStarted"}`))

	assert.JSONEq(t, `{"suggestions":[{"content":"tom & jerry","description":"Google: tom &amp; jerry"}]}`,
		f.dispatch(t, `{"action":"omniboxInputChanged","text":"t"}`))

	assert.JSONEq(t, `{"suggestions":[]}`,
		f.dispatch(t, `{"action":"omniboxInputChanged","text":" "}`))

	assert.JSONEq(t, `{"success":true}`,
		f.dispatch(t, `{"action":"omniboxInputEntered","text":"tom & jerry","disposition":"newForegroundTab"}`))

	assert.JSONEq(t, `{"success":true}`,
		f.dispatch(t, `{"action":"omniboxInputCancelled"}`))
}
