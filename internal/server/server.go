// Package server wires the application together: database, services,
// handlers, middleware, and routes. It is the composition root; main.go
// only loads configuration and calls Start.
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

	"github.com/domussolis/domus/internal/auth"
	"github.com/domussolis/domus/internal/config"
	"github.com/domussolis/domus/internal/handler"
	"github.com/domussolis/domus/internal/middleware"
	sqliteRepo "github.com/domussolis/domus/internal/repository/sqlite"
	"github.com/domussolis/domus/internal/service"
	"github.com/domussolis/domus/internal/viewcache"
)

// Server owns the router and the resources that must be released on
// shutdown, most importantly the database connection.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain. Each layer only receives what it
// needs: services get repository interfaces, handlers get services, the
// router gets handlers.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes registers middleware and all routes.
//
// Route map:
//
//	GET  /                        → home page (recent articles)
//	GET  /artigos                 → article listing, paginated, searchable
//	GET  /artigos/{slug}          → article page, sanitized at render
//	GET  /static/*                → assets
//	POST /auth/login              → credential login, sets session cookie
//	POST /auth/logout             → clears session cookie
//	GET  /admin                   → admin shell (session page, redirects to /)
//	/api/*                        → admin JSON API (session required, 401)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Page and form mutations invalidate cached view generations through
	// the services, so admin screens can cheaply detect stale listings.
	pages := viewcache.New()

	articleService := service.NewArticleService(s.db.Articles(), pages, s.logger)
	categoryService := service.NewCategoryService(s.db.Categories(), pages, s.logger)

	pageHandler, err := handler.NewPageHandler(
		s.config.TemplateDir, articleService, categoryService, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	s.router.Get("/", pageHandler.HandleHome)
	s.router.Get("/artigos", pageHandler.HandleArticles)
	s.router.Get("/artigos/{slug}", pageHandler.HandleArticle)
	s.router.NotFound(pageHandler.HandleNotFound)

	if s.config.SessionSecret == "" {
		s.logger.Warn("session_secret not set, admin area is disabled")
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	userService := service.NewUserService(s.db.Users(), passwords, pages, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	articleHandler := handler.NewArticleHandler(articleService, pages, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, pages, s.logger)
	userHandler := handler.NewUserHandler(userService, pages, s.logger)

	s.router.Post("/auth/login", authHandler.HandleLogin)
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	// The admin page redirects anonymous visitors to the home page; the
	// JSON API answers 401 instead.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSessionPage(tokens))
		r.Get("/admin", pageHandler.HandleAdmin)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Get("/artigos", articleHandler.HandleList)
		r.Get("/artigos/{slug}", articleHandler.HandleGet)
		r.Post("/artigos", articleHandler.HandleCreate)
		r.Put("/artigos/{id}", articleHandler.HandleUpdate)
		r.Delete("/artigos/{id}", articleHandler.HandleDelete)

		r.Get("/categorias", categoryHandler.HandleList)
		r.Get("/categorias/todas", categoryHandler.HandleListAll)
		r.Post("/categorias", categoryHandler.HandleCreate)
		r.Put("/categorias/{id}", categoryHandler.HandleUpdate)
		r.Delete("/categorias/{id}", categoryHandler.HandleDelete)

		r.Get("/usuarios", userHandler.HandleList)
		r.Post("/usuarios", userHandler.HandleCreate)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database so the WAL is flushed and the file lock released.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
