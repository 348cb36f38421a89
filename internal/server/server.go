package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	v1 "github.com/workboards/workboards/internal/api/v1"
	"github.com/workboards/workboards/internal/api/ws"
	"github.com/workboards/workboards/internal/config"
	"github.com/workboards/workboards/internal/hub"
	"github.com/workboards/workboards/internal/server/middleware"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      v1.DataStore
	mutator    v1.Mutator
	wsHandler  *ws.Handler
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds the lifetime of
// background middleware goroutines (rate limiter cleanup).
func New(ctx context.Context, cfg *config.Config, store v1.DataStore, mutator v1.Mutator, broadcast *hub.Hub) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Workspace-Id", "X-User-Id", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	wsHandler := ws.NewHandler(broadcast)

	s := &Server{
		router:    router,
		store:     store,
		mutator:   mutator,
		wsHandler: wsHandler,
		cfg:       cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// REST API under /api with workspace header tenancy.
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Workspace())
			r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))

			apiConfig := huma.DefaultConfig("WorkBoards API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, store, mutator)
		})

		// Live board feed. The websocket handshake cannot carry custom
		// headers from browsers, so the feed is identified by board only,
		// matching the original protocol.
		r.Route("/ws", func(r chi.Router) {
			r.Get("/boards/{boardID}", wsHandler.ServeBoard)
		})
	})

	return s
}

// Start begins serving HTTP. Blocks until the server stops.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
