package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/sujal-debug/Policy-IQ/internal/app"
	"github.com/sujal-debug/Policy-IQ/internal/claims/handler"
	"github.com/sujal-debug/Policy-IQ/internal/config"
	"github.com/sujal-debug/Policy-IQ/internal/http/router"
	"github.com/sujal-debug/Policy-IQ/internal/scheduler"
	"github.com/sujal-debug/Policy-IQ/platform/db"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg.DatabaseURL)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	runner, err := app.BuildRunner(ctx, cfg, pool, log)
	if err != nil {
		log.Error("failed to build pipeline", "error", err)
		panic("failed to build pipeline: " + err.Error())
	}

	batchHandler := handler.New(runner, cfg.BatchDeadline, log)
	engine := router.New(cfg, pool, batchHandler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.RedisURL != "" {
		schedClient, err := scheduler.NewClient(cfg.RedisURL, cfg.AsynqQueue)
		if err != nil {
			log.Error("failed to create scheduler client", "error", err)
			panic("failed to create scheduler client: " + err.Error())
		}
		defer schedClient.Close()

		poller := scheduler.NewPoller(schedClient, cfg.BatchInterval, log)
		group.Go(func() error {
			poller.Run(groupCtx)
			return nil
		})
		log.Info("batch poller started", "interval", cfg.BatchInterval.String())
	} else {
		log.Warn("REDIS_URL not configured, periodic batches disabled")
	}

	if err := group.Wait(); err != nil {
		log.Error("api stopped", "error", err)
		os.Exit(1)
	}
	log.Info("api stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
