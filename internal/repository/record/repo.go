package record

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/feedex/internal/domain"
	domrec "github.com/kailas-cloud/feedex/internal/domain/record"
)

const selectColumns = `id, author_id, content, sky_status, precipitation_type,
	like_count, comment_count, created_at, updated_at, deleted_at`

const findByIDsQuery = `SELECT ` + selectColumns + `
	FROM feeds
	WHERE id = ANY($1) AND deleted_at IS NULL`

const firstPageQuery = `SELECT ` + selectColumns + `
	FROM feeds
	WHERE deleted_at IS NULL
	ORDER BY created_at, id
	LIMIT $1`

const nextPageQuery = `SELECT ` + selectColumns + `
	FROM feeds
	WHERE deleted_at IS NULL AND (created_at, id) > ($1, $2)
	ORDER BY created_at, id
	LIMIT $3`

// querier is the consumer interface over *sql.DB (ISP).
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repo reads feed records from PostgreSQL.
type Repo struct {
	db      querier
	timeout time.Duration
}

// Option configures Repo.
type Option func(*Repo)

// WithQueryTimeout bounds every query. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(r *Repo) { r.timeout = d }
}

// New creates a record repository.
func New(db querier, opts ...Option) *Repo {
	r := &Repo{db: db}
	for _, o := range opts {
		o(r)
	}
	return r
}

// FindByIDs loads live records for ids in one round-trip. Order is unspecified;
// ids without a live record are absent from the result.
func (r *Repo) FindByIDs(ctx context.Context, ids []int64) ([]domrec.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, findByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, domain.StoreUnavailable("find by ids", err)
	}
	recs, err := scanAll(rows, len(ids))
	if err != nil {
		return nil, domain.StoreUnavailable("find by ids", err)
	}
	return recs, nil
}

// ListNonDeletedAfter returns up to limit live records strictly after the
// keyset position, in (created_at, id) order. A nil after starts from the beginning.
func (r *Repo) ListNonDeletedAfter(
	ctx context.Context, after *domrec.Keyset, limit int,
) ([]domrec.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if after == nil {
		rows, err = r.db.QueryContext(ctx, firstPageQuery, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, nextPageQuery, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, domain.StoreUnavailable("list non-deleted", err)
	}
	recs, err := scanAll(rows, limit)
	if err != nil {
		return nil, domain.StoreUnavailable("list non-deleted", err)
	}
	return recs, nil
}

// StreamNonDeleted walks all live records in (created_at, id) keyset order,
// yielding non-empty batches of at most batchSize. Iteration stops after the
// first error, which is yielded with a nil batch.
func (r *Repo) StreamNonDeleted(ctx context.Context, batchSize int) iter.Seq2[[]domrec.Record, error] {
	return walk(ctx, batchSize, r.ListNonDeletedAfter)
}

type pageFunc func(ctx context.Context, after *domrec.Keyset, limit int) ([]domrec.Record, error)

func walk(ctx context.Context, batchSize int, page pageFunc) iter.Seq2[[]domrec.Record, error] {
	return func(yield func([]domrec.Record, error) bool) {
		var after *domrec.Keyset
		for {
			batch, err := page(ctx, after, batchSize)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(batch) == 0 {
				return
			}
			if !yield(batch, nil) {
				return
			}
			if len(batch) < batchSize {
				return
			}
			last := batch[len(batch)-1].Key()
			after = &last
		}
	}
}

func (r *Repo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
