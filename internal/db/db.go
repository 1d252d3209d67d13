package db

import (
	"context"
	"time"
)

// Store is the search index facade combining all sub-interfaces.
//
//nolint:interfacebloat // repositories depend on narrow sub-interfaces
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Locker
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides pipelined hash writes and deletes.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
}

// IndexInfo is the subset of FT.INFO the service cares about.
type IndexInfo struct {
	NumDocs        int64
	Indexing       bool
	PercentIndexed float64
}

// CaughtUp reports whether background indexing has covered every document.
func (i IndexInfo) CaughtUp() bool {
	return !i.Indexing && i.PercentIndexed >= 1
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (IndexInfo, error)
}

// Searcher provides sorted retrieval and counting over FT indexes.
type Searcher interface {
	Aggregate(ctx context.Context, q *AggregateQuery) (*AggregateResult, error)
	SearchCount(ctx context.Context, index, query string) (int64, error)
}

// Locker provides a best-effort lease shared between service replicas.
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Extend(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) (bool, error)
}
