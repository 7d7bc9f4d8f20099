// Package server boots the application: configuration, MongoDB, Redis,
// storage, queue workers, and the HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priyamehta/aarohi/app/jobs"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/config"
	"github.com/priyamehta/aarohi/internal/kernel"
	"github.com/priyamehta/aarohi/pkg/cache"
	"github.com/priyamehta/aarohi/pkg/database"
	"github.com/priyamehta/aarohi/pkg/event"
	"github.com/priyamehta/aarohi/pkg/logger"
	"github.com/priyamehta/aarohi/pkg/queue"
	"github.com/priyamehta/aarohi/pkg/storage"
	"github.com/priyamehta/aarohi/pkg/workerpool"
)

const queueWorkers = 4

// Boot prepares every subsystem shared by the serve, seed, and queue:work
// commands. It returns a shutdown function.
func Boot(ctx context.Context) (func(), error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	if err := database.Connect(ctx); err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	// Cache is best-effort: a missing Redis degrades to direct lookups.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	}

	storage.Connect()

	// Queue driver: Redis when connected, in-memory otherwise.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseMongo(database.Collection("failed_jobs"))
	jobs.Register()

	// Low-stock events fan into queue jobs through a bounded pool so a
	// bursty seed or flash sale cannot spawn unbounded goroutines.
	pool := workerpool.New(8)
	event.Listen(services.EventLowStock, func(payload interface{}) {
		p, ok := payload.(services.LowStockPayload)
		if !ok {
			return
		}
		submit := func() {
			if err := queue.Dispatch(&jobs.LowStockAlertJob{
				ProductID: p.ProductID,
				Name:      p.Name,
				Stock:     p.Stock,
				Threshold: p.Threshold,
			}); err != nil {
				logger.Error("dispatching low-stock alert", "product", p.ProductID, "error", err)
			}
		}
		if err := pool.Submit(submit); err != nil {
			submit() // pool saturated or closed; run inline
		}
	})

	shutdown := func() {
		pool.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			logger.Error("disconnecting mongo", "error", err)
		}
	}
	return shutdown, nil
}

// Run boots the application and serves HTTP until SIGINT/SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	queue.StartWorkers(ctx, queueWorkers)

	r, err := kernel.NewRouter()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
