// Command feedex-reconcile runs one reconciliation of the search index
// against the record store and exits. Exit code 1 means the run failed.
//
// With -recreate the index is dropped and created again before the run,
// which applies schema changes to an existing deployment.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/app"
	"github.com/kailas-cloud/feedex/internal/config"
	logpkg "github.com/kailas-cloud/feedex/internal/logger"
	"github.com/kailas-cloud/feedex/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	recreate := flag.Bool("recreate", false, "drop and recreate the search index before reconciling")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting feedex reconciliation",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.Int("batch_size", cfg.Reconcile.BatchSize),
		zap.Bool("recreate", *recreate),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", zap.Error(err))
		return 1
	}
	defer a.Close()

	if *recreate {
		if err := a.RecreateIndex(ctx); err != nil {
			logger.Error("Failed to recreate index", zap.Error(err))
			return 1
		}
	}

	res, err := a.Reconcile.Run(ctx)
	if err != nil {
		logger.Error("Reconciliation failed", zap.String("run_id", res.RunID), zap.Error(err))
		return 1
	}

	logger.Info("Reconciliation finished",
		zap.String("run_id", res.RunID),
		zap.Int("upserted", res.Upserted),
		zap.Int("removed", res.Removed),
		zap.Duration("duration", res.Duration),
	)
	return 0
}
