package feedex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/db/postgres"
	dbredis "github.com/kailas-cloud/feedex/internal/db/redis"
	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	docrepo "github.com/kailas-cloud/feedex/internal/repository/document"
	"github.com/kailas-cloud/feedex/internal/repository/feedindex"
	recordrepo "github.com/kailas-cloud/feedex/internal/repository/record"
	feeduc "github.com/kailas-cloud/feedex/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
	reconcileuc "github.com/kailas-cloud/feedex/internal/usecase/reconcile"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndexName        = "feedex:idx:feeds"
	defaultKeyPrefix        = "feedex:"
)

// Internal interfaces, substituted in tests.
type feedUseCase interface {
	GetPage(ctx context.Context, req request.Request) (page.Page, error)
}

type reconcileUseCase interface {
	Run(ctx context.Context) (domrun.RunResult, error)
	Status() domrun.Status
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the feedex SDK entry point.
type Client struct {
	closers   []func()
	feedSvc   feedUseCase
	reconSvc  reconcileUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the search index and the record store, ensures the
// index exists and wires the services.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName: defaultIndexName,
		keyPrefix: defaultKeyPrefix,
		minLimit:  feeduc.DefaultMinLimit,
		maxLimit:  feeduc.DefaultMaxLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("feedex: index address required (use WithRedis)")
	}
	if cfg.dsn == "" {
		return nil, errors.New("feedex: record store dsn required (use WithPostgres)")
	}
	if cfg.minLimit < 1 || cfg.maxLimit < cfg.minLimit {
		return nil, fmt.Errorf("feedex: invalid limits [%d, %d]", cfg.minLimit, cfg.maxLimit)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	index, err := dbredis.NewStore(dbredis.Config{Addrs: cfg.addrs, Password: cfg.password})
	if err != nil {
		return nil, fmt.Errorf("feedex: create index store: %w", err)
	}
	c := &Client{obs: obs, closers: []func(){index.Close}}
	if err := index.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		c.Close()
		return nil, fmt.Errorf("feedex: index not ready: %w", err)
	}

	db, err := postgres.Open(postgres.Config{DSN: cfg.dsn})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("feedex: open record store: %w", err)
	}
	c.closers = append(c.closers, func() { _ = db.Close() })
	if err := postgres.WaitForReady(ctx, db, defaultReadinessTimeout); err != nil {
		c.Close()
		return nil, fmt.Errorf("feedex: record store not ready: %w", err)
	}
	if cfg.migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			c.Close()
			return nil, fmt.Errorf("feedex: %w", err)
		}
	}

	if err := c.wire(ctx, index, db, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) wire(ctx context.Context, index *dbredis.Store, db *sql.DB, cfg *clientConfig) error {
	records := recordrepo.New(db, recordrepo.WithQueryTimeout(cfg.timeout))
	docs := docrepo.New(index, cfg.indexName, cfg.keyPrefix, docrepo.WithTimeout(cfg.timeout))
	feedIndex := feedindex.New(index, cfg.indexName, feedindex.WithTimeout(cfg.timeout))

	if _, err := docs.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("feedex: ensure search index: %w", err)
	}

	reconOpts := []reconcileuc.Option{reconcileuc.WithLogger(zap.NewNop())}
	if cfg.batchSize > 0 {
		reconOpts = append(reconOpts, reconcileuc.WithBatchSize(cfg.batchSize))
	}

	c.feedSvc = feeduc.New(feedIndex, records).WithLimits(cfg.minLimit, cfg.maxLimit)
	c.reconSvc = reconcileuc.New(records, docs, feedIndex, reconOpts...)
	c.healthSvc = healthuc.New().
		With(healthuc.ComponentIndex, index).
		With(healthuc.ComponentRecords, healthuc.PingFunc(db.PingContext))
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
