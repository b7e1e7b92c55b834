// Package server wires the dependency graph and runs the HTTP server.
//
// The composition root lives here: main.go hands over a Config and a
// logger, New assembles stores → services → handlers and binds routes, and
// Start runs until a shutdown signal drains in-flight requests.
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

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/config"
	"github.com/sakif/account-service/internal/handler"
	"github.com/sakif/account-service/internal/middleware"
	"github.com/sakif/account-service/internal/repository/redisrepo"
	sqliteRepo "github.com/sakif/account-service/internal/repository/sqlite"
	"github.com/sakif/account-service/internal/service"
)

// Server owns the router and the store connections. Both stores are closed
// on shutdown.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	devices *redisrepo.DeviceStore
}

// New creates a Server: opens both stores, builds the services and binds
// all routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	devices, err := redisrepo.New(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		devices: devices,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		devices.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the dependency chain and binds
// handlers.
//
//	POST   /api/accounts          create account        (open)
//	POST   /api/login             login                 (open)
//	POST   /api/logout            clear token cookie    (open)
//	GET    /api/account           account view          (auth)
//	GET    /api/account/password  password status       (auth)
//	PATCH  /api/account           update profile        (auth)
//	PUT    /api/account/password  change password       (auth)
//	POST   /api/account/devices   register push device  (auth)
//	DELETE /api/account           delete account        (auth)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	passwords := auth.NewPasswordService()
	facebook := auth.NewFacebookVerifier()

	accountService := service.NewAccountService(s.db, s.devices, passwords, facebook, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, facebook, s.logger)

	accountHandler := handler.NewAccountHandler(accountService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/accounts", accountHandler.HandleCreate)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/account", accountHandler.HandleGet)
			r.Get("/account/password", accountHandler.HandlePasswordStatus)
			r.Patch("/account", accountHandler.HandleUpdateProfile)
			r.Put("/account/password", accountHandler.HandleChangePassword)
			r.Post("/account/devices", accountHandler.HandleRegisterDevice)
			r.Delete("/account", accountHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the stores.
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.devices.Close()

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
			slog.String("redis", s.config.RedisURL),
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
