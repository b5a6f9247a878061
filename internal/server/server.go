// Package server is the composition root: it opens the database, builds
// services and handlers, mounts routes and runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config.Load() -> server.New(cfg, logger)
//	server.New: sqlite.DB -> repositories -> services -> handlers -> routes
//
// Everything is wired here once and passed down explicitly; no package keeps
// a global registry of its dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/acronyms-api/internal/config"
	"github.com/sakif/acronyms-api/internal/handler"
	"github.com/sakif/acronyms-api/internal/middleware"
	sqliteRepo "github.com/sakif/acronyms-api/internal/repository/sqlite"
	"github.com/sakif/acronyms-api/internal/service"
)

// Server owns the router and the database connection. The database is
// closed when Start returns, or by Close for servers that never start.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	registry *prometheus.Registry
}

// New opens the database (applying migrations) and mounts every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /api/acronyms                               list
//	POST   /api/acronyms                               create
//	GET    /api/acronyms/search?term=                  exact search
//	GET    /api/acronyms/first                         lowest id
//	GET    /api/acronyms/sorted                        by short form
//	GET    /api/acronyms/{id}                          get
//	PUT    /api/acronyms/{id}                          update
//	DELETE /api/acronyms/{id}                          delete
//	GET    /api/acronyms/{id}/user                     owner
//	GET    /api/acronyms/{id}/categories               categories
//	POST   /api/acronyms/{id}/categories/{categoryID}  attach
//	DELETE /api/acronyms/{id}/categories/{categoryID}  detach
//	GET    /api/users[/{id}[/acronyms]], POST /api/users
//	GET    /api/categories[/{id}[/acronyms]], POST /api/categories
//	GET    /healthz, /metrics
//
// chi prefers static segments over {id}, so /search is never parsed as an id.
//
// MIDDLEWARE ORDER:
// RequestID runs first so every later middleware can log the id. Recoverer
// sits inside Logger and Metrics so a panic is still counted as a 500.
func (s *Server) setupRoutes() {
	metrics := middleware.NewMetrics(s.registry)

	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Handler)
	s.router.Use(chimiddleware.Recoverer)

	acronyms := service.NewAcronymService(s.db.Acronyms(), s.db.Categories(), s.logger)
	users := service.NewUserService(s.db.Users(), s.db.Acronyms(), s.logger)
	categories := service.NewCategoryService(s.db.Categories(), s.logger)

	acronymHandler := handler.NewAcronymHandler(acronyms, s.logger)
	userHandler := handler.NewUserHandler(users, s.logger)
	categoryHandler := handler.NewCategoryHandler(categories, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/acronyms", func(r chi.Router) {
			r.Get("/", acronymHandler.HandleList)
			r.Post("/", acronymHandler.HandleCreate)
			r.Get("/search", acronymHandler.HandleSearch)
			r.Get("/first", acronymHandler.HandleFirst)
			r.Get("/sorted", acronymHandler.HandleSorted)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", acronymHandler.HandleGetByID)
				r.Put("/", acronymHandler.HandleUpdate)
				r.Delete("/", acronymHandler.HandleDelete)
				r.Get("/user", acronymHandler.HandleGetUser)
				r.Get("/categories", acronymHandler.HandleListCategories)
				r.Post("/categories/{categoryID}", acronymHandler.HandleAttachCategory)
				r.Delete("/categories/{categoryID}", acronymHandler.HandleDetachCategory)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.HandleList)
			r.Post("/", userHandler.HandleCreate)
			r.Get("/{id}", userHandler.HandleGetByID)
			r.Get("/{id}/acronyms", userHandler.HandleListAcronyms)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.HandleList)
			r.Post("/", categoryHandler.HandleCreate)
			r.Get("/{id}", categoryHandler.HandleGetByID)
			r.Get("/{id}/acronyms", categoryHandler.HandleListAcronyms)
		})
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start already does this on return.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting new connections
//  2. wait up to Server.ShutdownTimeout for in-flight requests
//  3. close the database
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
