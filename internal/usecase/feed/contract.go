package feed

import (
	"context"

	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// Index runs keyset page queries and counts against the search index.
type Index interface {
	Query(ctx context.Context, q query.Query) (query.Result, error)
	Count(ctx context.Context, f filter.Filter) (int64, error)
}

// RecordReader loads live records by id from the record store.
type RecordReader interface {
	FindByIDs(ctx context.Context, ids []int64) ([]record.Record, error)
}
