// Package app wires the feed service: stores, repositories, use cases and HTTP routing.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/config"
	"github.com/kailas-cloud/feedex/internal/db/postgres"
	dbredis "github.com/kailas-cloud/feedex/internal/db/redis"
	"github.com/kailas-cloud/feedex/internal/metrics"
	docrepo "github.com/kailas-cloud/feedex/internal/repository/document"
	"github.com/kailas-cloud/feedex/internal/repository/feedindex"
	recordrepo "github.com/kailas-cloud/feedex/internal/repository/record"
	chiTransport "github.com/kailas-cloud/feedex/internal/transport/chi"
	feeduc "github.com/kailas-cloud/feedex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
	reconcileuc "github.com/kailas-cloud/feedex/internal/usecase/reconcile"
)

// App holds the connected stores and the use case services.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	index *dbredis.Store
	db    *sql.DB
	docs  *docrepo.Repo

	Feeds     *feeduc.Service
	Reconcile *reconcileuc.Service
	Health    *healthuc.Service
}

// New connects to both stores, applies migrations when configured,
// ensures the search index exists and builds the services.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.Register()

	index, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Index.Addrs,
		Username: cfg.Index.Username,
		Password: cfg.Index.Password,
		DB:       cfg.Index.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create index store: %w", err)
	}
	if err := index.WaitForReady(ctx, time.Duration(cfg.Index.ReadinessTimeout)*time.Second); err != nil {
		index.Close()
		return nil, fmt.Errorf("index not ready: %w", err)
	}
	logger.Info("Connected to search index", zap.Strings("addrs", cfg.Index.Addrs))

	db, err := postgres.Open(postgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("open record store: %w", err)
	}
	a := &App{cfg: cfg, logger: logger, index: index, db: db}

	if err := postgres.WaitForReady(ctx, db, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.Close()
		return nil, fmt.Errorf("record store not ready: %w", err)
	}
	logger.Info("Connected to record store")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("Record store migrations applied")
	}

	records := recordrepo.New(db, recordrepo.WithQueryTimeout(cfg.Database.QueryTimeout()))
	docs := docrepo.New(index, cfg.Index.Name, cfg.Index.KeyPrefix, docrepo.WithTimeout(cfg.Index.Timeout()))
	a.docs = docs
	feedIndex := feedindex.New(index, cfg.Index.Name, feedindex.WithTimeout(cfg.Index.Timeout()))

	created, err := docs.EnsureIndex(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ensure search index: %w", err)
	}
	if created {
		logger.Info("Search index created", zap.String("index", cfg.Index.Name))
	}

	a.Feeds = feeduc.New(feedIndex, records).
		WithLimits(cfg.Pagination.MinLimit, cfg.Pagination.MaxLimit)
	a.Reconcile = reconcileuc.New(records, docs, feedIndex,
		reconcileuc.WithBatchSize(cfg.Reconcile.BatchSize),
		reconcileuc.WithBatchesPerSecond(cfg.Reconcile.BatchesPerSecond),
		reconcileuc.WithLease(index, cfg.Index.LockKey(), cfg.Reconcile.LockTTL()),
		reconcileuc.WithLogger(logger),
	)
	a.Health = healthuc.New().
		With(healthuc.ComponentIndex, index).
		With(healthuc.ComponentRecords, healthuc.PingFunc(db.PingContext))

	return a, nil
}

// RecreateIndex drops the search index and creates it from the current
// schema. Indexed documents are kept and re-scanned by the server.
func (a *App) RecreateIndex(ctx context.Context) error {
	if err := a.docs.Recreate(ctx); err != nil {
		return fmt.Errorf("recreate search index: %w", err)
	}
	a.logger.Info("Search index recreated", zap.String("index", a.cfg.Index.Name))
	return nil
}

// Router builds the HTTP handler. runCtx bounds reconciliation runs
// triggered over HTTP.
func (a *App) Router(runCtx context.Context) http.Handler {
	server := chiTransport.NewServer(a.Feeds, a.Reconcile, a.Health, a.logger).
		WithRunContext(runCtx)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(a.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(a.logger))
	r.Use(metrics.Middleware())

	return chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		AdminMiddlewares: []func(http.Handler) http.Handler{
			chiTransport.BearerAuthMiddleware(a.cfg.HTTP.AdminAPIKeys),
		},
		ErrorHandlerFunc: server.ParamErrorHandler,
	})
}

// Close releases both store connections.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Closing record store", zap.Error(err))
		}
	}
	if a.index != nil {
		a.index.Close()
	}
}
