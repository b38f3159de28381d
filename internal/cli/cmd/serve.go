package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/comet/internal/infrastructure/config"
	"github.com/bnema/comet/internal/infrastructure/httpapi"
	"github.com/bnema/comet/internal/infrastructure/metrics"
	"github.com/bnema/comet/internal/logging"
)

var (
	serveListen string
	serveDebug  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API",
	Long: `Serve the message protocol, search redirects and suggestions over HTTP.

Routes:
  GET  /healthz          liveness and version
  GET  /engines          engine table with the selected engine
  GET  /search?q=...     302 redirect to the configured engine
  GET  /suggest?q=...    OpenSearch suggestion response
  POST /api/message      any protocol message
  POST /api/search       search in the browser
  GET  /metrics          Prometheus metrics (server.enable_metrics)

Pointing a browser's custom search engine at /search and its suggest URL
at /suggest gives every browser the configured engine.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from server.listen)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "run gin in debug mode")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(logging.WithComponent(a.Ctx(), "serve"), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	cfg := a.Config
	listen := cfg.Server.Listen
	if serveListen != "" {
		listen = serveListen
	}

	var m *metrics.Metrics
	if cfg.Server.EnableMetrics {
		m = a.Metrics
	}

	srv := httpapi.NewServer(httpapi.Config{
		Listen:         listen,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        a.BuildInfo.Version,
		Debug:          serveDebug,
	}, httpapi.Services{
		Router:   a.Router,
		Suggest:  a.SuggestUC,
		Dispatch: a.DispatchUC,
		Engines:  a.EnginesUC,
	}, m)

	if a.ConfigManager != nil {
		a.ConfigManager.OnConfigChange(func(next *config.Config) {
			if next.Server.Listen != listen || !slices.Equal(next.Server.AllowedOrigins, cfg.Server.AllowedOrigins) {
				log.Warn().Msg("server settings changed; restart comet serve to apply them")
				return
			}
			log.Info().Msg("configuration reloaded")
		})
		a.ConfigManager.Watch()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	log.Info().Str("listen", listen).Bool("metrics", m != nil).Msg("comet serve started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info().Msg("comet serve stopped")
	return nil
}
