package feed

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// memIndex is an in-memory index with the same keyset semantics as the FT index.
type memIndex struct {
	mu      sync.Mutex
	docs    []record.Record
	queries []query.Query
	counts  int

	queryFn func(ctx context.Context, q query.Query) (query.Result, error)
	countFn func(ctx context.Context, f filter.Filter) (int64, error)
}

func (m *memIndex) Query(ctx context.Context, q query.Query) (query.Result, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.queryFn != nil {
		return m.queryFn(ctx, q)
	}

	matched := m.match(q.Filter)
	slices.SortFunc(matched, func(a, b record.Record) int {
		c := comparePos(sortKey(q.Field, a), a.ID(), sortKey(q.Field, b), b.ID())
		if q.Direction.IsDescending() {
			return -c
		}
		return c
	})

	var res query.Result
	for _, r := range matched {
		if q.After != nil && !isPast(q, r, *q.After) {
			continue
		}
		if len(res.Hits) == q.Limit {
			res.HasNext = true
			break
		}
		res.Hits = append(res.Hits, query.Hit{ID: r.ID(), SortKey: sortKey(q.Field, r)})
	}
	return res, nil
}

func (m *memIndex) Count(ctx context.Context, f filter.Filter) (int64, error) {
	m.mu.Lock()
	m.counts++
	m.mu.Unlock()
	if m.countFn != nil {
		return m.countFn(ctx, f)
	}
	return int64(len(m.match(f))), nil
}

func (m *memIndex) match(f filter.Filter) []record.Record {
	var out []record.Record
	for _, r := range m.docs {
		if kw := f.Keyword(); kw != "" && !strings.Contains(r.Content(), kw) {
			continue
		}
		if s := f.SkyStatuses(); len(s) > 0 && !slices.Contains(s, r.SkyStatus()) {
			continue
		}
		if p := f.PrecipitationTypes(); len(p) > 0 && !slices.Contains(p, r.PrecipitationType()) {
			continue
		}
		if a := f.AuthorID(); a != nil && *a != r.AuthorID() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sortKey(f order.Field, r record.Record) int64 {
	if f == order.LikeCount {
		return r.LikeCount()
	}
	return r.CreatedAt().UnixMicro()
}

func comparePos(ka, ida, kb, idb int64) int {
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	switch {
	case ida < idb:
		return -1
	case ida > idb:
		return 1
	default:
		return 0
	}
}

func isPast(q query.Query, r record.Record, c cursor.Cursor) bool {
	cmp := comparePos(sortKey(q.Field, r), r.ID(), c.SortKey(), c.ID())
	if q.Direction.IsDescending() {
		return cmp < 0
	}
	return cmp > 0
}

// memRecords is an in-memory record store.
type memRecords struct {
	mu      sync.Mutex
	byID    map[int64]record.Record
	calls   int
	findErr error
}

func newMemRecords(recs []record.Record) *memRecords {
	m := &memRecords{byID: make(map[int64]record.Record, len(recs))}
	for _, r := range recs {
		m.byID[r.ID()] = r
	}
	return m
}

func (m *memRecords) FindByIDs(_ context.Context, ids []int64) ([]record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []record.Record
	// reverse order: callers must re-sequence
	for i := len(ids) - 1; i >= 0; i-- {
		if r, ok := m.byID[ids[i]]; ok && !r.IsDeleted() {
			out = append(out, r)
		}
	}
	return out, nil
}

var baseTime = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func rec(id int64, createdOffset time.Duration, likes int64, sky record.SkyStatus) record.Record {
	return record.Reconstruct(record.Fields{
		ID:                id,
		AuthorID:          id%3 + 1,
		Content:           "post " + strings.Repeat("x", int(id%5)),
		SkyStatus:         sky,
		PrecipitationType: record.PrecipitationNone,
		LikeCount:         likes,
		CreatedAt:         baseTime.Add(createdOffset),
		UpdatedAt:         baseTime.Add(createdOffset),
	})
}

// fixture returns n records with heavy ties on both sort fields.
func fixture(n int) []record.Record {
	skies := []record.SkyStatus{record.SkyClear, record.SkyCloudy, record.SkyMostlyCloudy}
	out := make([]record.Record, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = rec(id, time.Duration(i/3)*time.Second, int64(i%4), skies[i%len(skies)])
	}
	return out
}

func newTestService(t *testing.T, recs []record.Record) (*Service, *memIndex, *memRecords) {
	t.Helper()
	idx := &memIndex{docs: recs}
	store := newMemRecords(recs)
	return New(idx, store), idx, store
}

func mustRequest(t *testing.T, p request.Params) request.Request {
	t.Helper()
	req, err := request.New(p)
	if err != nil {
		t.Fatalf("request.New(%+v): %v", p, err)
	}
	return req
}
