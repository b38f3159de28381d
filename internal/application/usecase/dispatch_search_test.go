package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/comet/internal/application/port"
	portmocks "github.com/bnema/comet/internal/application/port/mocks"
	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/entity"
)

type searchRecorder struct {
	dispositions []string
}

func (r *searchRecorder) RecordSearch(_ string, disposition string) {
	r.dispositions = append(r.dispositions, disposition)
}

func TestDispatchSearchUseCase_NavigatesActiveTab(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().ActiveTab(gomock.Any()).Return(&port.Tab{ID: "T1"}, nil)
	tabs.EXPECT().Navigate(gomock.Any(), "T1", "https://kagi.com/search?q=go%20generics").Return(nil)

	rec := &searchRecorder{}
	uc := usecase.NewDispatchSearchUseCase(settingsWith(nil), tabs, nil, rec)
	out, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "  go generics "})

	require.NoError(t, err)
	assert.Equal(t, usecase.DispositionCurrentTab, out.Disposition)
	assert.Equal(t, "https://kagi.com/search?q=go%20generics", out.URL)
	assert.Equal(t, []string{"current_tab"}, rec.dispositions)
}

func TestDispatchSearchUseCase_OverrideOpensNewTab(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().OpenTab(gomock.Any(), "https://kagi.com/search?q=news").Return(nil)

	newTab := true
	uc := usecase.NewDispatchSearchUseCase(settingsWith(nil), tabs, nil, nil)
	out, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "news", OpenInNewTab: &newTab})

	require.NoError(t, err)
	assert.Equal(t, usecase.DispositionNewTab, out.Disposition)
}

func TestDispatchSearchUseCase_SettingOpensNewTab(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().OpenTab(gomock.Any(), "https://www.google.com/search?q=weather").Return(nil)

	settings := settingsWith(func(s *entity.Settings) {
		s.SearchEngine = "google"
		s.OpenInNewTab = true
	})
	uc := usecase.NewDispatchSearchUseCase(settings, tabs, nil, nil)
	out, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "weather"})

	require.NoError(t, err)
	assert.Equal(t, usecase.DispositionNewTab, out.Disposition)
}

func TestDispatchSearchUseCase_OverrideFalseBeatsSetting(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().ActiveTab(gomock.Any()).Return(&port.Tab{ID: "T9"}, nil)
	tabs.EXPECT().Navigate(gomock.Any(), "T9", gomock.Any()).Return(nil)

	newTab := false
	settings := settingsWith(func(s *entity.Settings) { s.OpenInNewTab = true })
	uc := usecase.NewDispatchSearchUseCase(settings, tabs, nil, nil)
	out, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "x", OpenInNewTab: &newTab})

	require.NoError(t, err)
	assert.Equal(t, usecase.DispositionCurrentTab, out.Disposition)
}

func TestDispatchSearchUseCase_NoActiveTabFallsBackToNewTab(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().ActiveTab(gomock.Any()).Return(nil, nil)
	tabs.EXPECT().OpenTab(gomock.Any(), "https://www.ecosia.org/search?q=trees").Return(nil)

	settings := settingsWith(func(s *entity.Settings) { s.SearchEngine = "ecosia" })
	uc := usecase.NewDispatchSearchUseCase(settings, tabs, nil, nil)
	out, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "trees"})

	require.NoError(t, err)
	assert.Equal(t, usecase.DispositionFallbackNewTab, out.Disposition)
}

func TestDispatchSearchUseCase_EmptyQueryIsNoop(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		tabs := portmocks.NewMockTabController(gomock.NewController(t))
		uc := usecase.NewDispatchSearchUseCase(settingsWith(nil), tabs, nil, nil)

		out, err := uc.Execute(testContext(), usecase.DispatchSearchInput{Query: q})

		require.NoError(t, err)
		assert.Equal(t, usecase.DispositionNoop, out.Disposition)
		assert.Empty(t, out.URL)
	}
}

func TestDispatchSearchUseCase_TabErrorsSurface(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().ActiveTab(gomock.Any()).Return(&port.Tab{ID: "T1"}, nil)
	tabs.EXPECT().Navigate(gomock.Any(), "T1", gomock.Any()).Return(errors.New("tab crashed"))

	uc := usecase.NewDispatchSearchUseCase(settingsWith(nil), tabs, nil, nil)
	_, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab crashed")
}

func TestDispatchSearchUseCase_ActiveTabErrorSurfaces(t *testing.T) {
	ctx := testContext()
	tabs := portmocks.NewMockTabController(gomock.NewController(t))
	tabs.EXPECT().ActiveTab(gomock.Any()).Return(nil, errors.New("devtools unreachable"))

	uc := usecase.NewDispatchSearchUseCase(settingsWith(nil), tabs, nil, nil)
	_, err := uc.Execute(ctx, usecase.DispatchSearchInput{Query: "x"})

	require.Error(t, err)
}
