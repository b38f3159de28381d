package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/entity"
	repomocks "github.com/bnema/comet/internal/domain/repository/mocks"
	"github.com/bnema/comet/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func ptr[T any](v T) *T { return &v }

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestManageSettingsUseCase_Get_MergesStoredOverDefaults(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{
		entity.SettingSearchEngine:   raw(`"google"`),
		entity.SettingMaxSuggestions: raw(`8`),
	}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	got := uc.Get(ctx)

	assert.Equal(t, entity.Settings{
		SearchEngine:    "google",
		ShowSuggestions: true,
		OpenInNewTab:    false,
		MaxSuggestions:  8,
	}, got)
}

func TestManageSettingsUseCase_Get_ReturnsDefaultsOnLoadError(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("disk gone"))

	uc := usecase.NewManageSettingsUseCase(repo, nil)

	assert.Equal(t, entity.DefaultSettings(), uc.Get(ctx))
}

func TestManageSettingsUseCase_Get_IgnoresUndecodableValues(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{
		entity.SettingShowSuggestions: raw(`"yes please"`),
		entity.SettingOpenInNewTab:    raw(`true`),
		"somethingElse":               raw(`42`),
	}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	got := uc.Get(ctx)

	assert.True(t, got.ShowSuggestions)
	assert.True(t, got.OpenInNewTab)
	assert.Equal(t, "kagi", got.SearchEngine)
}

func TestManageSettingsUseCase_Update_PersistsOnlyPatchedFields(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{}, nil)

	var saved map[string]json.RawMessage
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, values map[string]json.RawMessage) error {
			saved = values
			return nil
		})

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	got, err := uc.Update(ctx, entity.SettingsPatch{SearchEngine: ptr("duckduckgo")})
	require.NoError(t, err)

	assert.Equal(t, "duckduckgo", got.SearchEngine)
	assert.Equal(t, 5, got.MaxSuggestions)
	require.Len(t, saved, 1)
	assert.JSONEq(t, `"duckduckgo"`, string(saved[entity.SettingSearchEngine]))
}

func TestManageSettingsUseCase_Update_RejectsUnknownEngine(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	got, err := uc.Update(ctx, entity.SettingsPatch{SearchEngine: ptr("altavista")})

	require.ErrorIs(t, err, usecase.ErrUnknownEngine)
	assert.Equal(t, entity.DefaultSettings(), got)
}

func TestManageSettingsUseCase_Update_RejectsOutOfRangeMax(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	_, err := uc.Update(ctx, entity.SettingsPatch{MaxSuggestions: ptr(0)})

	require.ErrorIs(t, err, entity.ErrInvalidMaxSuggestions)
}

func TestManageSettingsUseCase_Update_EmptyPatchIsNoop(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	got, err := uc.Update(ctx, entity.SettingsPatch{})

	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSettings(), got)
}

func TestManageSettingsUseCase_Update_SaveErrorIsReturned(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("readonly"))

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	_, err := uc.Update(ctx, entity.SettingsPatch{OpenInNewTab: ptr(true)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "readonly")
}

func TestManageSettingsUseCase_InstallDefaults_FirstRun(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().IsInstalled(gomock.Any()).Return(false, nil)
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, values map[string]json.RawMessage) error {
			assert.Len(t, values, 4)
			return nil
		})
	repo.EXPECT().MarkInstalled(gomock.Any()).Return(nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	out, err := uc.InstallDefaults(ctx)

	require.NoError(t, err)
	assert.True(t, out.Installed)
	assert.Equal(t, entity.DefaultSettings(), out.Settings)
}

func TestManageSettingsUseCase_InstallDefaults_AlreadyInstalled(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(gomock.NewController(t))
	repo.EXPECT().IsInstalled(gomock.Any()).Return(true, nil)
	repo.EXPECT().Load(gomock.Any()).Return(map[string]json.RawMessage{
		entity.SettingSearchEngine: raw(`"ecosia"`),
	}, nil)

	uc := usecase.NewManageSettingsUseCase(repo, nil)
	out, err := uc.InstallDefaults(ctx)

	require.NoError(t, err)
	assert.False(t, out.Installed)
	assert.Equal(t, "ecosia", out.Settings.SearchEngine)
}
