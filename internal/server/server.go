// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and passes it to New(), which assembles the chain:
//
//	sqlite.DB → UserStore/TaskStore → UserService/TaskService → handlers
//
// This is the "composition root" pattern — all dependencies are wired
// in one place, rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/solardev/solar-api/internal/config"
	"github.com/solardev/solar-api/internal/handler"
	"github.com/solardev/solar-api/internal/middleware"
	sqliteRepo "github.com/solardev/solar-api/internal/repository/sqlite"
	"github.com/solardev/solar-api/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. On shutdown it must be closed to
// flush the WAL and release the file lock, which Start() guarantees with a
// defer even if something panics.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config and wires the full dependency
// chain. Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler ever sees
// an http.Request.
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// Router exposes the configured router so tests can drive the server with
// httptest without opening a socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Start() calls this itself; it
// exists separately for callers that use Router() and never Start().
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — tags each request with an xid (for log correlation)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info and the request ID
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// DEPENDENCY CHAIN:
	//   s.db.Users()/Tasks() implement the repository interfaces
	//   services receive the interfaces, handlers receive the services
	userService := service.NewUserService(s.db.Users(), s.logger)
	taskService := service.NewTaskService(s.db.Tasks(), s.db.Users(), s.logger)
	dataService := service.NewDataService(s.logger)

	infoHandler := handler.NewInfoHandler()
	calcHandler := handler.NewCalculatorHandler(s.logger)
	dataHandler := handler.NewDataHandler(dataService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)

	s.router.Get("/", infoHandler.HandleRoot)
	s.router.Get("/health", infoHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/info", infoHandler.HandleInfo)

		r.Route("/calculator", func(r chi.Router) {
			r.Post("/add", calcHandler.HandleAdd)
			r.Post("/subtract", calcHandler.HandleSubtract)
			r.Post("/multiply", calcHandler.HandleMultiply)
			r.Post("/divide", calcHandler.HandleDivide)
		})

		r.Route("/data", func(r chi.Router) {
			r.Post("/statistics/analyze", dataHandler.HandleAnalyze)
			r.Get("/statistics/numbers", dataHandler.HandleGenerateNumbers)
			r.Post("/trend/predict", dataHandler.HandlePredictTrend)
			r.Post("/sales/analyze", dataHandler.HandleAnalyzeSales)
			r.Get("/sales/demo", dataHandler.HandleDemoSales)
			r.Get("/chart/data", dataHandler.HandleChartData)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.HandleCreate)
			r.Get("/", userHandler.HandleList)
			r.Get("/{id}", userHandler.HandleGet)
			r.Put("/{id}", userHandler.HandleUpdate)
			r.Delete("/{id}", userHandler.HandleDelete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.HandleCreate)
			r.Get("/", taskHandler.HandleList)
			r.Get("/{id}", taskHandler.HandleGet)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Patch("/{id}/toggle", taskHandler.HandleToggle)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
