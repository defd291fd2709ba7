package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"compta/internal/cache"
	"compta/internal/cli"
	apphttp "compta/internal/http"
	"compta/internal/log"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second
	cacheSweepEvery = time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	res := cli.OpenBackend(ctx, logger, cli.BackendConfig(logger, cfg))
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	caches := cache.NewManager(func(removed int) {
		logger.Debug("Expired summary cache entries removed", "removed", removed)
	})
	for _, c := range res.Caches {
		caches.Register(c)
	}
	caches.StartCleanup(cacheSweepEvery)
	defer caches.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, res.Backend, apphttp.Options{
		Password: cfg.LedgerPassword,
		Logger:   logger,
	})
	if cfg.LedgerPassword == "" {
		logger.Warn("LEDGER_PASSWORD is empty, the API is open to anyone who can reach it")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting compta server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"events", res.Events)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
