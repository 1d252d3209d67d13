package document

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/feedex/internal/db"
	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	delMultiFn    func(ctx context.Context, keys []string) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	indexInfoFn   func(ctx context.Context, name string) (db.IndexInfo, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) DelMulti(ctx context.Context, keys []string) error {
	if m.delMultiFn != nil {
		return m.delMultiFn(ctx, keys)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) IndexInfo(ctx context.Context, name string) (db.IndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return db.IndexInfo{PercentIndexed: 1}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "feedex:idx:feeds", "feedex:", WithPollInterval(time.Millisecond)), ms
}

func testDocument(t *testing.T, id int64) domdoc.Document {
	t.Helper()
	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	return domdoc.FromRecord(record.Reconstruct(record.Fields{
		ID:                id,
		AuthorID:          7,
		Content:           "clear skies",
		SkyStatus:         record.SkyClear,
		PrecipitationType: record.PrecipitationNone,
		LikeCount:         3,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}))
}
