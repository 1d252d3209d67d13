package feedindex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/feedex/internal/db"
	"github.com/kailas-cloud/feedex/internal/domain"
	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/metrics"
)

// store is the consumer interface for sorted retrieval (ISP).
type store interface {
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
	SearchCount(ctx context.Context, index, query string) (int64, error)
}

// Repo runs filtered keyset queries against the feed index.
type Repo struct {
	store   store
	index   string
	timeout time.Duration
}

// Option configures Repo.
type Option func(*Repo)

// WithTimeout bounds every index call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Repo) { r.timeout = d }
}

// New creates a feed index repository over the named FT index.
func New(s store, indexName string, opts ...Option) *Repo {
	r := &Repo{store: s, index: indexName}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Query returns up to q.Limit hits in (sortKey, id) order for q.Direction,
// and whether more matching documents exist past the last one.
func (r *Repo) Query(ctx context.Context, q query.Query) (query.Result, error) {
	if q.Limit <= 0 {
		return query.Result{}, fmt.Errorf("limit must be positive, got %d", q.Limit)
	}
	for _, c := range []*cursor.Cursor{q.After, q.Until} {
		if c != nil && c.Field() != q.Field {
			return query.Result{}, fmt.Errorf("cursor for %s used with sort %s: %w",
				c.Field(), q.Field, domain.ErrMalformedCursor)
		}
	}

	field := sortField(q.Field)
	desc := q.Direction.IsDescending()

	clauses := []string{filterPredicate(q.Filter)}
	if q.After != nil {
		clauses = append(clauses, afterPredicate(field, q.Direction, *q.After))
	}
	if q.Until != nil {
		clauses = append(clauses, untilPredicate(field, q.Direction, *q.Until))
	}

	aq := &db.AggregateQuery{
		IndexName: r.index,
		Query:     db.And(clauses...),
		Load:      []string{domdoc.FieldID, field},
		SortBy:    []db.SortKey{{Field: field, Desc: desc}, {Field: domdoc.FieldID, Desc: desc}},
		Limit:     q.Limit + 1,
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := r.store.Aggregate(ctx, aq)
	metrics.ObserveIndexQuery("page", start, err)
	if err != nil {
		return query.Result{}, domain.IndexUnavailable("index query", err)
	}

	hits := make([]query.Hit, 0, min(len(res.Rows), q.Limit))
	for _, row := range res.Rows {
		if len(hits) == q.Limit {
			break
		}
		hit, err := parseHit(row, field)
		if err != nil {
			return query.Result{}, domain.IndexUnavailable("index query", err)
		}
		hits = append(hits, hit)
	}

	return query.Result{Hits: hits, HasNext: len(res.Rows) > q.Limit}, nil
}

// Count returns the number of documents matching f.
func (r *Repo) Count(ctx context.Context, f filter.Filter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	n, err := r.store.SearchCount(ctx, r.index, filterPredicate(f))
	metrics.ObserveIndexQuery("count", start, err)
	if err != nil {
		return 0, domain.IndexUnavailable("index count", err)
	}
	return n, nil
}

func (r *Repo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func parseHit(row map[string]string, field string) (query.Hit, error) {
	id, err := parseNumeric(row, domdoc.FieldID)
	if err != nil {
		return query.Hit{}, err
	}
	key, err := parseNumeric(row, field)
	if err != nil {
		return query.Hit{}, err
	}
	return query.Hit{ID: id, SortKey: key}, nil
}

var errMissingField = errors.New("missing field in index row")

// parseNumeric reads an integer attribute. Sortable values may come back in
// float notation, which is exact for integers below 2^53.
func parseNumeric(row map[string]string, name string) (int64, error) {
	raw, ok := row[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingField, name)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse %s %q: not an integer", name, raw)
	}
	return int64(math.Round(f)), nil
}
