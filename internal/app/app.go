// Package app wires configuration, storage, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	cardrepo "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
	studylogrepo "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/studylog"
	userrepo "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/flashdeck-backend/internal/auth"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/scheduler"
	authsvc "github.com/heartmarshall/flashdeck-backend/internal/service/auth"
	studysvc "github.com/heartmarshall/flashdeck-backend/internal/service/study"
	"github.com/heartmarshall/flashdeck-backend/internal/transport/middleware"
	"github.com/heartmarshall/flashdeck-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the services and the HTTP router, and serves until
// the context is canceled or a termination signal arrives.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Repositories and transaction manager.
	cards := cardrepo.New(pool)
	logs := studylogrepo.New(pool)
	users := userrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// Services.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, users, jwtManager)
	studyService := studysvc.NewService(logger, cards, logs, txManager, cfg.Study)

	// Retention scheduler.
	sched := scheduler.New(logger, studyService, cfg.Cleanup)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	// HTTP surface.
	authHandler := rest.NewAuthHandler(authService, logger)
	studyHandler := rest.NewStudyHandler(studyService, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("POST /api/auth/login", rateLimiter.Limit(30)(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/register", rateLimiter.Limit(10)(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("POST /api/study/results", studyHandler.RecordResult)
	mux.HandleFunc("GET /api/study/cards", studyHandler.ListCards)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
