package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/feedex/internal/domain"
	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	"github.com/kailas-cloud/feedex/internal/domain/record"
	"github.com/kailas-cloud/feedex/internal/metrics"
)

// Defaults.
const (
	DefaultBatchSize = 500
	DefaultSweepPage = 1000
)

// Service rebuilds the search index from the record store.
type Service struct {
	records RecordSource
	docs    DocumentWriter
	index   IndexReader
	logger  *zap.Logger

	batchSize int
	sweepPage int
	limiter   *rate.Limiter

	locker  Locker
	lockKey string
	lockTTL time.Duration

	state atomic.Int32

	mu      sync.RWMutex
	lastRun *domrun.RunResult

	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize sets the record walk batch size.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSweepPageSize sets the page size of stale document scans.
func WithSweepPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sweepPage = n
		}
	}
}

// WithBatchesPerSecond throttles the walk. Zero means unlimited.
func WithBatchesPerSecond(n float64) Option {
	return func(s *Service) {
		if n > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// WithLease makes every run hold key in l for the duration of the run.
// The lease is skipped when l is nil or ttl is not positive.
func WithLease(l Locker, key string, ttl time.Duration) Option {
	return func(s *Service) {
		if l != nil && ttl > 0 {
			s.locker, s.lockKey, s.lockTTL = l, key, ttl
		}
	}
}

// WithLogger sets the run logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a reconciliation service.
func New(records RecordSource, docs DocumentWriter, index IndexReader, opts ...Option) *Service {
	s := &Service{
		records:   records,
		docs:      docs,
		index:     index,
		logger:    zap.NewNop(),
		batchSize: DefaultBatchSize,
		sweepPage: DefaultSweepPage,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Status returns the current state and the last finished run.
func (s *Service) Status() domrun.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := domrun.Status{State: domrun.State(s.state.Load()).String()}
	if s.lastRun != nil {
		r := *s.lastRun
		st.LastRun = &r
	}
	return st
}

// Run performs one full reconciliation. Only one run executes at a time;
// a concurrent call returns domain.ErrReconciliationRunning immediately.
func (s *Service) Run(ctx context.Context) (domrun.RunResult, error) {
	runID, l, err := s.admit(ctx)
	if err != nil {
		return domrun.RunResult{}, err
	}
	defer s.state.Store(int32(domrun.StateIdle))
	return s.execute(ctx, runID, l)
}

// Trigger admits a run like Run but executes it in the background.
// It returns the run id once the run is admitted.
func (s *Service) Trigger(ctx context.Context) (string, error) {
	runID, l, err := s.admit(ctx)
	if err != nil {
		return "", err
	}
	go func() {
		defer s.state.Store(int32(domrun.StateIdle))
		_, _ = s.execute(ctx, runID, l)
	}()
	return runID, nil
}

// admit moves the job to RUNNING and takes the lease. The caller returns the
// job to IDLE once execute is done.
func (s *Service) admit(ctx context.Context) (string, *lease, error) {
	if !s.state.CompareAndSwap(int32(domrun.StateIdle), int32(domrun.StateRunning)) {
		metrics.ReconcileRunsTotal.WithLabelValues("REJECTED").Inc()
		return "", nil, domain.ErrReconciliationRunning
	}
	runID := uuid.NewString()

	l, err := s.acquire(ctx, runID)
	if err != nil {
		s.state.Store(int32(domrun.StateIdle))
		metrics.ReconcileRunsTotal.WithLabelValues("REJECTED").Inc()
		return "", nil, err
	}
	return runID, l, nil
}

func (s *Service) execute(ctx context.Context, runID string, l *lease) (domrun.RunResult, error) {
	res := domrun.RunResult{RunID: runID, StartedAt: s.now().UTC()}
	log := s.logger.With(zap.String("run_id", runID))

	log.Info("reconcile_started", zap.Int("batch_size", s.batchSize))

	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)
	l.keepAlive(runCtx, abort)

	err := s.run(runCtx, log, &res, l)

	if lerr := l.release(ctx); lerr != nil {
		switch {
		case !errors.Is(lerr, errLeaseLost):
			log.Warn("reconcile lease release failed", zap.Error(lerr))
		case errors.Is(err, errLeaseLost):
		case err != nil:
			err = fmt.Errorf("%w: %w", lerr, err)
		default:
			err = lerr
		}
	}

	res.FinishedAt = s.now().UTC()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	metrics.ReconcileRunDuration.Observe(res.Duration.Seconds())
	metrics.ReconcileDocumentsTotal.WithLabelValues("upserted").Add(float64(res.Upserted))
	metrics.ReconcileDocumentsTotal.WithLabelValues("removed").Add(float64(res.Removed))

	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrReconciliationFailed, err)
		res.Outcome = domrun.OutcomeFailed
		res.Error = err.Error()
		s.finish(res)
		metrics.ReconcileRunsTotal.WithLabelValues(string(res.Outcome)).Inc()
		log.Error("reconcile_failed",
			zap.Int("batches", res.Batches),
			zap.Int("upserted", res.Upserted),
			zap.Int("removed", res.Removed),
			zap.Duration("duration", res.Duration),
			zap.Error(err),
		)
		return res, err
	}

	res.Outcome = domrun.OutcomeCompleted
	s.finish(res)
	metrics.ReconcileRunsTotal.WithLabelValues(string(res.Outcome)).Inc()
	metrics.ReconcileLastSuccess.Set(float64(res.FinishedAt.Unix()))
	log.Info("reconcile_completed",
		zap.Int("batches", res.Batches),
		zap.Int("upserted", res.Upserted),
		zap.Int("removed", res.Removed),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, log *zap.Logger, res *domrun.RunResult, l *lease) error {
	var prev *record.Keyset

	for batch, err := range s.records.StreamNonDeleted(ctx, s.batchSize) {
		if err != nil {
			return fmt.Errorf("read batch %d: %w", res.Batches+1, err)
		}
		if len(batch) == 0 {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := l.renew(ctx); err != nil {
			return fmt.Errorf("batch %d: %w", res.Batches+1, err)
		}

		docs := make([]domdoc.Document, len(batch))
		live := make(map[int64]struct{}, len(batch))
		for i, r := range batch {
			docs[i] = domdoc.FromRecord(r)
			live[r.ID()] = struct{}{}
		}
		if err := s.docs.BulkUpsert(ctx, docs); err != nil {
			return fmt.Errorf("upsert batch %d: %w", res.Batches+1, err)
		}

		last := batch[len(batch)-1].Key()
		removed, err := s.sweep(ctx, prev, &last, live)
		if err != nil {
			return fmt.Errorf("sweep batch %d: %w", res.Batches+1, err)
		}

		res.Batches++
		res.Upserted += len(docs)
		res.Removed += removed
		prev = &last

		log.Debug("reconcile_batch",
			zap.Int("batch", res.Batches),
			zap.Int("size", len(batch)),
			zap.Int("removed", removed),
			zap.Int64("last_id", last.ID),
		)
	}

	if err := l.renew(ctx); err != nil {
		return fmt.Errorf("sweep tail: %w", err)
	}
	// everything past the last live record is stale
	removed, err := s.sweep(ctx, prev, nil, nil)
	if err != nil {
		return fmt.Errorf("sweep tail: %w", err)
	}
	res.Removed += removed

	if err := s.docs.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// sweep deletes index documents in (from, to] that are not in live.
// A nil from starts at the beginning; a nil to runs to the end.
func (s *Service) sweep(ctx context.Context, from, to *record.Keyset, live map[int64]struct{}) (int, error) {
	q := query.Query{
		Field:     order.CreatedAt,
		Direction: order.Ascending,
		After:     keysetCursor(from),
		Until:     keysetCursor(to),
		Limit:     s.sweepPage,
	}

	removed := 0
	for {
		res, err := s.index.Query(ctx, q)
		if err != nil {
			return removed, err
		}

		var stale []int64
		for _, h := range res.Hits {
			if _, ok := live[h.ID]; !ok {
				stale = append(stale, h.ID)
			}
		}
		if len(stale) > 0 {
			if err := s.docs.Delete(ctx, stale); err != nil {
				return removed, err
			}
			removed += len(stale)
		}

		next := res.Next(q.Field)
		if next == nil {
			return removed, nil
		}
		q.After = next
	}
}

func keysetCursor(k *record.Keyset) *cursor.Cursor {
	if k == nil {
		return nil
	}
	c := cursor.FromCreatedAt(k.CreatedAt, k.ID)
	return &c
}

func (s *Service) finish(res domrun.RunResult) {
	s.mu.Lock()
	s.lastRun = &res
	s.mu.Unlock()
}

// IsRunning reports whether err rejected a run because another one is in flight.
func IsRunning(err error) bool {
	return errors.Is(err, domain.ErrReconciliationRunning)
}
