package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campwire/community-core/config"
	"github.com/campwire/community-core/internal/infrastructure/postgres"
	ctxlog "github.com/campwire/community-core/internal/log"
	"github.com/campwire/community-core/internal/reconcile"
	"github.com/campwire/community-core/internal/usecase"
	"github.com/lmittmann/tint"
)

// The reconciler runs separately from the API server so a slow sweep never
// competes with request traffic for the process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	bookmarkRepo := postgres.NewBookmarkRepository(pool)
	bookmarkUsecase := usecase.NewBookmarkUsecase(bookmarkRepo, accountRepo, logger)

	sweeper, err := reconcile.NewSweeper(bookmarkUsecase, cfg.ReconcileCron, logger)
	if err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	// One sweep at startup, then on the cron schedule.
	sweeper.RunOnce(ctx)
	sweeper.Start(ctx)
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
