package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campwire/community-core/config"
	"github.com/campwire/community-core/internal/email"
	"github.com/campwire/community-core/internal/health"
	"github.com/campwire/community-core/internal/infrastructure/postgres"
	ctxlog "github.com/campwire/community-core/internal/log"
	"github.com/campwire/community-core/internal/metrics"
	"github.com/campwire/community-core/internal/ratelimit"
	"github.com/campwire/community-core/internal/token"
	httptransport "github.com/campwire/community-core/internal/transport/http"
	"github.com/campwire/community-core/internal/transport/http/handler"
	"github.com/campwire/community-core/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Accounts & sessions
	accountRepo := postgres.NewAccountRepository(pool)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.SessionTTL)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	accountUsecase := usecase.NewAccountUsecase(accountRepo, tokens, sender, logger)
	accountHandler := handler.NewAccountHandler(accountUsecase, logger)

	// Bookmarks
	bookmarkRepo := postgres.NewBookmarkRepository(pool)
	bookmarkUsecase := usecase.NewBookmarkUsecase(bookmarkRepo, accountRepo, logger)
	itemHandler := handler.NewItemHandler(bookmarkUsecase, logger)

	// Credential rate gate
	var store ratelimit.Store
	if cfg.RateLimitStore == "postgres" {
		store = postgres.NewRateWindowStore(pool)
	} else {
		store = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.NewFixedWindow(store, cfg.RateLimitMax, cfg.RateLimitWindow)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, accountHandler, itemHandler, tokens, limiter),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
