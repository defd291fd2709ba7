package main

import (
	"context"
	"errors"
	"os"
	"time"

	"compta/internal/amqp"
	"compta/internal/cli"
	"compta/internal/log"
	"compta/internal/sheets"
	gsheet "compta/internal/sheets/google"
	sheetsmem "compta/internal/sheets/memory"
	"compta/internal/worker"

	"golang.org/x/sync/errgroup"
)

// journal is what the export worker writes to and reconciles against.
type journal interface {
	sheets.TransactionExporter
	sheets.JournalReader
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting compta-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	// The worker reads the ledger but never writes it, so it does not
	// publish events of its own.
	bc := cli.BackendConfig(logger, cfg)
	bc.AMQPURL = ""
	res := cli.OpenBackend(ctx, logger, bc)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	var j journal
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromConfig(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		j = client
		logger.Info("Google Sheets journal initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		j = sheetsmem.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, exporting to an in-memory journal")
	}

	w := worker.NewExportWorker(res.Backend, j, j, logger)

	logger.Info("Performing startup reconcile", log.FieldOperation, log.OpStartup)
	reconcile(ctx, w, logger)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			return client.Consume(gctx, w.HandleEvent)
		})
	} else {
		logger.Info("AMQP_URL not set, running periodic reconcile only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				reconcile(gctx, w, logger)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func reconcile(ctx context.Context, w *worker.ExportWorker, logger *log.Logger) {
	rep, err := w.Reconcile(ctx)
	if err != nil {
		logger.Error("Reconcile failed", log.FieldError, err, log.FieldOperation, log.OpExport)
		return
	}
	if rep.Exported > 0 || rep.Removed > 0 || rep.Errors > 0 {
		logger.Info("Reconcile finished",
			"exported", rep.Exported,
			"removed", rep.Removed,
			"errors", rep.Errors)
	}
}
