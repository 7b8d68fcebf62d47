// Package webui serves the HTTP API used by the node widgets: style lists,
// prompt styling, favourites and customization storage.
package webui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"zimage_power/imagesave"
	"zimage_power/nodes"
	"zimage_power/styles"

	"go.uber.org/zap"
)

// ErrMissingCatalog is returned by NewServer without a style catalog.
var ErrMissingCatalog = errors.New("webui: a style catalog is required")

// ServerConfig configures the Server.
type ServerConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// LogSkipPaths are served without request logging.
	LogSkipPaths []string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8189,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		LogSkipPaths: []string{"/health"},
	}
}

// Dependencies are the collaborators the API serves. Only Catalog is
// required; the profile routes exist only when Profiles is set.
type Dependencies struct {
	Catalog  *styles.Catalog
	Registry *nodes.Registry
	Profiles ProfileStore
	Guard    OperationGuard

	// Saver enables POST /zi_power/save.
	Saver *imagesave.Saver

	// LogLevel serves GET/PUT /debug/log_level when set.
	LogLevel http.Handler
}

// Server is the HTTP API organism. It wires:
//   - the style endpoints backed by the catalog and node helpers
//   - the profile endpoints backed by a ProfileStore
//   - LoggingMiddleware, panic recovery and shutdown tracking
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
	logger     *zap.Logger

	catalog   *styles.Catalog
	encoder   *nodes.StylePromptEncoder
	topStyles *nodes.MyTopStyles
	editor    *nodes.TopStylesEditor
	registry  *nodes.Registry
	profiles  ProfileStore
	saver     *imagesave.Saver
	logLevel  http.Handler
	started   time.Time
}

// NewServer creates a Server. A nil logger disables logging.
func NewServer(config ServerConfig, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Catalog == nil {
		return nil, ErrMissingCatalog
	}

	// The API only styles prompts; encoding happens in the host.
	encoder, err := nodes.NewStylePromptEncoder(deps.Catalog, nil, logger.Named("encoder"))
	if err != nil {
		return nil, err
	}
	topStyles, err := nodes.NewMyTopStyles(deps.Catalog, logger.Named("top_styles"))
	if err != nil {
		return nil, err
	}
	editor, err := nodes.NewTopStylesEditor(deps.Catalog)
	if err != nil {
		return nil, err
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		logger:    logger,
		catalog:   deps.Catalog,
		encoder:   encoder,
		topStyles: topStyles,
		editor:    editor,
		registry:  deps.Registry,
		profiles:  deps.Profiles,
		saver:     deps.Saver,
		logLevel:  deps.LogLevel,
		started:   time.Now(),
	}
	s.setupRoutes()

	handler := NewLoggingMiddleware(logger, config.LogSkipPaths...).
		Handler(recoverPanics(logger, trackOperations(deps.Guard, s.mux)))

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("WebUI server created",
		zap.String("addr", s.httpServer.Addr),
		zap.Bool("profiles_enabled", deps.Profiles != nil),
	)
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /zi_power/styles", s.handleStyles)
	s.mux.HandleFunc("GET /zi_power/quoted_styles/by_category", s.handleQuotedStylesByCategory)
	s.mux.HandleFunc("GET /zi_power/styles/{category}", s.handleCategoryStyles)
	s.mux.HandleFunc("GET /zi_power/top_styles_options", s.handleTopStylesOptions)
	s.mux.HandleFunc("POST /zi_power/apply", s.handleApply)
	s.mux.HandleFunc("POST /zi_power/inject", s.handleInject)
	s.mux.HandleFunc("POST /zi_power/select", s.handleSelect)

	s.mux.HandleFunc("GET /zi_power/latent", s.handleLatent)
	s.mux.HandleFunc("GET /zi_power/latent/options", s.handleLatentOptions)
	s.mux.HandleFunc("GET /zi_power/sampler/plan", s.handleSamplerPlan)

	s.mux.HandleFunc("GET /zi_power/filename", s.handleFilename)
	if s.saver != nil {
		s.mux.HandleFunc("POST /zi_power/save", s.handleSave)
	}

	if s.registry != nil {
		s.mux.HandleFunc("GET /zi_power/nodes", s.handleNodes)
	}

	if s.profiles != nil {
		s.mux.HandleFunc("GET /zi_power/top_styles/{profile}", s.handleGetTopStyles)
		s.mux.HandleFunc("PUT /zi_power/top_styles/{profile}", s.handlePutTopStyles)
		s.mux.HandleFunc("GET /zi_power/customization/{profile}", s.handleGetCustomization)
		s.mux.HandleFunc("PUT /zi_power/customization/{profile}", s.handlePutCustomization)
		s.mux.HandleFunc("DELETE /zi_power/profiles/{profile}", s.handleDeleteProfile)
	}

	if s.logLevel != nil {
		s.mux.Handle("/debug/log_level", s.logLevel)
	}
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying http.Server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("WebUI server listening", zap.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("webui: listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down WebUI server")
	return s.httpServer.Shutdown(ctx)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string  `json:"status"`
	Uptime     string  `json:"uptime"`
	Styles     int     `json:"styles"`
	Categories int     `json:"categories"`
	Profiles   bool    `json:"profiles"`
	UptimeSecs float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.started)
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Uptime:     uptime.Round(time.Second).String(),
		UptimeSecs: uptime.Seconds(),
		// AllNames starts with "none".
		Styles:     len(s.catalog.AllNames()) - 1,
		Categories: len(s.catalog.Categories()),
		Profiles:   s.profiles != nil,
	})
}
