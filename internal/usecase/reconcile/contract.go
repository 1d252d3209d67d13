package reconcile

import (
	"context"
	"iter"
	"time"

	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// RecordSource walks live records in (createdAt, id) order.
type RecordSource interface {
	StreamNonDeleted(ctx context.Context, batchSize int) iter.Seq2[[]record.Record, error]
}

// DocumentWriter writes index documents.
type DocumentWriter interface {
	BulkUpsert(ctx context.Context, docs []domdoc.Document) error
	Delete(ctx context.Context, ids []int64) error
	Refresh(ctx context.Context) error
}

// IndexReader lists index documents in a keyset range.
type IndexReader interface {
	Query(ctx context.Context, q query.Query) (query.Result, error)
}

// Locker is a cross-process lease. Optional. Extend and Unlock report false
// when owner no longer holds key.
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Extend(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) (bool, error)
}
