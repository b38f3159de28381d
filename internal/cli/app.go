// Package cli wires comet's dependencies for the CLI commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/domain/build"
	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/infrastructure/clipboard"
	"github.com/bnema/comet/internal/infrastructure/config"
	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/infrastructure/metrics"
	"github.com/bnema/comet/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/comet/internal/infrastructure/suggest"
	"github.com/bnema/comet/internal/infrastructure/tabs"
	"github.com/bnema/comet/internal/logging"
)

// Options controls how the App is built.
type Options struct {
	// ConfigFile overrides the XDG config file location.
	ConfigFile string
	// LogToStderr mirrors logs to stderr. Interactive screens and the
	// native host must keep stderr quiet.
	LogToStderr bool
}

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info
	Metrics       *metrics.Metrics
	Engines       *engine.Table
	Router        *messaging.MessageRouter
	Tabs          port.TabController
	Clipboard     port.Clipboard

	// Use cases
	SettingsUC *usecase.ManageSettingsUseCase
	SuggestUC  *usecase.FetchSuggestionsUseCase
	DispatchUC *usecase.DispatchSearchUseCase
	EnginesUC  *usecase.ListEnginesUseCase
	OmniboxUC  *usecase.OmniboxUseCase

	db *sqlite.LazyDB

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp creates a new CLI application with all dependencies. The settings
// database is opened lazily on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, cfgErr := loadConfig(opts.ConfigFile)

	theme := styles.NewTheme(cfg)

	logger, logCleanup, logErr := logging.NewWithFile(
		logging.Config{
			Level:      logging.ParseLevel(cfg.Logging.Level),
			Format:     cfg.Logging.Format,
			TimeFormat: "15:04:05",
		},
		logging.FileConfig{
			Enabled:       cfg.Logging.EnableFileLog,
			LogDir:        cfg.Logging.LogDir,
			MaxSizeMB:     cfg.Logging.MaxSizeMB,
			MaxBackups:    cfg.Logging.MaxBackups,
			MaxAgeDays:    cfg.Logging.MaxAge,
			WriteToStderr: opts.LogToStderr,
		},
	)
	ctx := logging.WithContext(context.Background(), logger)

	if logErr != nil {
		logger.Warn().Err(logErr).Msg("file logging unavailable")
	}
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("using default configuration")
	}

	engines := engine.Builtin()
	m := metrics.New()

	db := sqlite.NewLazyDB(cfg.Database.Path)
	settingsRepo := sqlite.NewSettingsRepository(db)
	settingsUC := usecase.NewManageSettingsUseCase(settingsRepo, engines)

	tabController, err := tabs.New(tabs.Options{
		Driver:  string(cfg.Tabs.Driver),
		Opener:  cfg.Tabs.Opener,
		CDPURL:  cfg.Tabs.CDPURL,
		Timeout: time.Duration(cfg.Tabs.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("create tab controller: %w", err)
	}

	client := suggest.NewClient(suggest.Options{
		Timeout:   time.Duration(cfg.Suggest.TimeoutMs) * time.Millisecond,
		UserAgent: cfg.Suggest.UserAgent,
	})

	suggestUC := usecase.NewFetchSuggestionsUseCase(settingsUC, client, engines, m)
	dispatchUC := usecase.NewDispatchSearchUseCase(settingsUC, tabController, engines, m)
	enginesUC := usecase.NewListEnginesUseCase(settingsUC, engines)
	omniboxUC := usecase.NewOmniboxUseCase(settingsUC, suggestUC, dispatchUC, engines)

	router := messaging.NewMessageRouter()
	router.SetObserver(m.RecordMessage)
	if err := messaging.RegisterAll(router, messaging.Services{
		Settings: settingsUC,
		Suggest:  suggestUC,
		Dispatch: dispatchUC,
		Engines:  enginesUC,
		Omnibox:  omniboxUC,
	}); err != nil {
		logCleanup()
		return nil, fmt.Errorf("register message handlers: %w", err)
	}

	configFile := opts.ConfigFile
	if mgr != nil {
		configFile = mgr.ConfigFile()
	}
	logger.Debug().
		Str("config", configFile).
		Str("db_path", cfg.Database.Path).
		Str("tabs_driver", string(cfg.Tabs.Driver)).
		Msg("app initialized")

	return &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         theme,
		Metrics:       m,
		Engines:       engines,
		Router:        router,
		Tabs:          tabController,
		Clipboard:     clipboard.New(),
		SettingsUC:    settingsUC,
		SuggestUC:     suggestUC,
		DispatchUC:    dispatchUC,
		EnginesUC:     enginesUC,
		OmniboxUC:     omniboxUC,
		db:            db,
		ctx:           ctx,
		logCleanup:    logCleanup,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from path, or from the XDG location when
// path is empty. On failure it returns defaults along with the error.
func loadConfig(path string) (*config.Manager, *config.Config, error) {
	var (
		mgr *config.Manager
		err error
	)
	if path != "" {
		mgr, err = config.NewManagerAt(path)
	} else {
		mgr, err = config.NewManager()
	}
	if err != nil {
		return nil, defaultConfig(), err
	}

	if err := mgr.Load(); err != nil {
		return mgr, defaultConfig(), err
	}
	return mgr, mgr.Get(), nil
}

// defaultConfig returns the defaults with the XDG database path filled in.
func defaultConfig() *config.Config {
	cfg := config.DefaultConfig()
	if cfg.Database.Path == "" {
		if dbFile, err := config.GetDatabaseFile(); err == nil {
			cfg.Database.Path = dbFile
		}
	}
	return cfg
}
