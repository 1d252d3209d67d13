package feed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	"github.com/kailas-cloud/feedex/internal/domain/record"
	"github.com/kailas-cloud/feedex/internal/logger"
	"github.com/kailas-cloud/feedex/internal/metrics"
)

// Default page size bounds.
const (
	DefaultMinLimit = 1
	DefaultMaxLimit = 100
)

// Service assembles feed pages: index query, hydration and count.
type Service struct {
	index    Index
	hydrator *Hydrator
	project  page.Projector
	minLimit int
	maxLimit int
}

// New creates a feed service.
func New(index Index, records RecordReader) *Service {
	return &Service{
		index:    index,
		hydrator: NewHydrator(records),
		project:  page.FromRecord,
		minLimit: DefaultMinLimit,
		maxLimit: DefaultMaxLimit,
	}
}

// WithLimits configures page size bounds. Non-positive values keep the defaults.
func (s *Service) WithLimits(minLimit, maxLimit int) *Service {
	if minLimit > 0 {
		s.minLimit = minLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	if s.minLimit > s.maxLimit {
		s.minLimit = s.maxLimit
	}
	return s
}

// WithProjector replaces the record to response item mapping.
func (s *Service) WithProjector(p page.Projector) *Service {
	if p != nil {
		s.project = p
	}
	return s
}

// NormalizeLimit clamps a requested page size into [minLimit, maxLimit].
func (s *Service) NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.minLimit
	case limit > s.maxLimit:
		return s.maxLimit
	default:
		return limit
	}
}

// GetPage returns one page of the feed. The page query with hydration and
// the count run concurrently; if either fails no page is returned.
func (s *Service) GetPage(ctx context.Context, req request.Request) (page.Page, error) {
	q := query.Query{
		Filter:    req.Filter(),
		Field:     req.SortBy(),
		Direction: req.Direction(),
		After:     req.After(),
		Limit:     s.NormalizeLimit(req.Limit()),
	}

	var (
		res     query.Result
		records []record.Record
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.index.Query(gctx, q)
		if err != nil {
			return fmt.Errorf("query page: %w", err)
		}
		records, err = s.hydrator.Hydrate(gctx, res.IDs())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.index.Count(gctx, q.Filter)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.FeedPagesTotal.WithLabelValues(q.Field.String(), q.Direction.String(), outcome(err)).Inc()
		logger.FromContext(ctx).Warn("feed page failed",
			zap.String("sort_by", q.Field.String()),
			zap.String("direction", q.Direction.String()),
			zap.Error(err),
		)
		return page.Page{}, err
	}

	out := page.Page{
		Data:          make([]page.Item, 0, len(records)),
		HasNext:       res.HasNext,
		TotalCount:    total,
		SortBy:        q.Field,
		SortDirection: q.Direction,
	}
	for _, r := range records {
		out.Data = append(out.Data, s.project(r))
	}
	if next := res.Next(q.Field); next != nil {
		c, id := next.Encode()
		out.NextCursor = &c
		out.NextIDAfter = &id
	}

	metrics.FeedPagesTotal.WithLabelValues(q.Field.String(), q.Direction.String(), "ok").Inc()
	return out, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexUnavailable):
		return "index_unavailable"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case domain.IsClientError(err):
		return "invalid"
	default:
		return "error"
	}
}
