// Package server wires configuration, providers, prompts and the extraction
// orchestrator into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/LeeChowCA/recipe-extraction/internal/api"
	"github.com/LeeChowCA/recipe-extraction/internal/config"
	"github.com/LeeChowCA/recipe-extraction/internal/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/llmcall"
	"github.com/LeeChowCA/recipe-extraction/internal/prompts"
	extractprompt "github.com/LeeChowCA/recipe-extraction/internal/prompts/extract"
	"github.com/LeeChowCA/recipe-extraction/internal/providers"
	"github.com/LeeChowCA/recipe-extraction/internal/server/endpoints"
	"github.com/LeeChowCA/recipe-extraction/internal/svcctx"
)

// Server is the recipe extraction HTTP server.
type Server struct {
	configMgr *config.Manager
	logger    *slog.Logger

	registry  *providers.Registry
	resolver  *prompts.Resolver
	recorder  *llmcall.Recorder
	extractor *extract.Extractor
	services  *svcctx.Services

	httpServer *http.Server
}

// New builds a server from the given config manager. All services are
// constructed here; config hot-reload propagates into the provider registry
// and the extractor's generation parameters without rebuilding anything.
func New(configMgr *config.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	registry.Reload(configMgr.Get().ToProviderRegistryConfig())
	configMgr.OnChange(func(cfg *config.Config) {
		registry.Reload(cfg.ToProviderRegistryConfig())
	})

	resolver := prompts.NewResolver(logger)
	extractprompt.RegisterPrompts(resolver)

	recorder := llmcall.NewRecorder(llmcall.DefaultCapacity)

	extractor := extract.New(extract.Config{
		Clients:  registry,
		Options:  func() extract.Options { return configMgr.Get().ExtractOptions() },
		Resolver: resolver,
		Recorder: recorder,
		Logger:   logger,
	})

	s := &Server{
		configMgr: configMgr,
		logger:    logger,
		registry:  registry,
		resolver:  resolver,
		recorder:  recorder,
		extractor: extractor,
	}
	s.services = &svcctx.Services{
		Extractor: extractor,
		Registry:  registry,
		Resolver:  resolver,
		Recorder:  recorder,
		Logger:    logger,
	}
	return s
}

// Handler builds the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	epRegistry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		epRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	epRegistry.RegisterRoutes(mux)

	return s.withServices(s.logRequests(mux))
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configMgr.Get()
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // extraction waits on the completion service
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// withServices attaches the service container to each request context.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), s.services)))
	})
}

// logRequests logs each request with method, path, status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
