// Package httpapi serves the comet protocol and a browser-facing search
// endpoint on a local HTTP port.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/infrastructure/metrics"
	"github.com/bnema/comet/internal/logging"
)

const (
	// DefaultListen keeps the API on loopback.
	DefaultListen = "127.0.0.1:7878"

	maxMessageBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config configures the server.
type Config struct {
	Listen         string
	AllowedOrigins []string
	Version        string
	Debug          bool
}

// Services are the application entry points the routes call.
type Services struct {
	Router   *messaging.MessageRouter
	Suggest  *usecase.FetchSuggestionsUseCase
	Dispatch *usecase.DispatchSearchUseCase
	Engines  *usecase.ListEnginesUseCase
}

// Server is the local HTTP API.
type Server struct {
	cfg     Config
	svc     Services
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// NewServer builds the gin engine and registers routes. m may be nil, in
// which case /metrics is not served.
func NewServer(cfg Config, svc Services, m *metrics.Metrics) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if !cfg.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, svc: svc, metrics: m, engine: gin.New()}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestContext())
	if m != nil {
		s.engine.Use(metricsMiddleware(m))
	}
	s.engine.Use(corsMiddleware(cfg.AllowedOrigins))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/engines", s.listEngines)
	s.engine.GET("/search", s.redirectSearch)
	s.engine.GET("/suggest", s.suggest)

	api := s.engine.Group("/api", requireJSON())
	api.POST("/message", s.message)
	api.POST("/search", s.dispatchSearch)

	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logging.FromContext(ctx).With().Str("component", "httpapi").Logger()

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("http api listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	log.Info().Msg("http api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) message(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxMessageBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, messaging.ErrorResponse{Error: err.Error()})
		return
	}

	out, err := s.svc.Router.Dispatch(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, messaging.ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

type searchResponse struct {
	Success     bool   `json:"success"`
	URL         string `json:"url,omitempty"`
	Engine      string `json:"engine,omitempty"`
	Disposition string `json:"disposition,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) dispatchSearch(c *gin.Context) {
	var req messaging.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, searchResponse{Error: err.Error()})
		return
	}

	out, err := s.svc.Dispatch.Execute(c.Request.Context(), usecase.DispatchSearchInput{
		Query:        req.Query,
		OpenInNewTab: req.OpenInNewTab,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, searchResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, searchResponse{
		Success:     true,
		URL:         out.URL,
		Engine:      string(out.Engine),
		Disposition: string(out.Disposition),
	})
}

// redirectSearch lets a browser use comet as a custom search engine:
// http://127.0.0.1:7878/search?q=%s
func (s *Server) redirectSearch(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusBadRequest, messaging.ErrorResponse{Error: "missing query"})
		return
	}

	_, cfg := s.svc.Engines.Current(c.Request.Context())
	c.Redirect(http.StatusFound, cfg.SearchURLFor(q))
}

// suggest answers in the OpenSearch suggestions shape, so the same endpoint
// can back a browser's suggestion URL.
func (s *Server) suggest(c *gin.Context) {
	q := c.Query("q")
	out := s.svc.Suggest.Execute(c.Request.Context(), usecase.FetchSuggestionsInput{Query: q})
	c.Header("Content-Type", "application/x-suggestions+json")
	c.JSON(http.StatusOK, []any{q, out.Suggestions})
}

type engineResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	SearchURL string `json:"searchUrl"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	Selected  bool   `json:"selected"`
}

func (s *Server) listEngines(c *gin.Context) {
	views := s.svc.Engines.List(c.Request.Context())
	resp := make([]engineResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, engineResponse{
			Key:       string(v.Key),
			Name:      v.Config.Name,
			SearchURL: v.Config.SearchURL,
			Icon:      v.Config.Icon,
			Color:     v.Config.Color,
			Selected:  v.Selected,
		})
	}
	c.JSON(http.StatusOK, resp)
}
