package feedindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/feedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	aggregateFn   func(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int64, error)
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return &db.AggregateResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int64, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T, opts ...Option) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "feedex:idx:feeds", opts...), ms
}

func rows(pairs ...[2]string) []map[string]string {
	out := make([]map[string]string, len(pairs))
	for i, p := range pairs {
		out[i] = map[string]string{"rid": p[0], "created_at": p[1]}
	}
	return out
}
