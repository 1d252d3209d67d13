package reconcile

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"time"

	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/feed/query"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

var errBoom = errors.New("boom")

// memSource serves records in keyset order, like the record repository.
type memSource struct {
	records []record.Record
	failAt  int // 1-based batch number that fails; 0 never
	block   chan struct{}
	started chan struct{}
}

func (m *memSource) StreamNonDeleted(ctx context.Context, batchSize int) iter.Seq2[[]record.Record, error] {
	live := make([]record.Record, 0, len(m.records))
	for _, r := range m.records {
		if !r.IsDeleted() {
			live = append(live, r)
		}
	}
	slices.SortFunc(live, func(a, b record.Record) int {
		switch {
		case a.Key().After(b.Key()):
			return 1
		case b.Key().After(a.Key()):
			return -1
		default:
			return 0
		}
	})

	return func(yield func([]record.Record, error) bool) {
		if m.started != nil {
			close(m.started)
		}
		if m.block != nil {
			select {
			case <-m.block:
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			}
		}
		for n, i := 1, 0; i < len(live); n, i = n+1, i+batchSize {
			if n == m.failAt {
				yield(nil, errBoom)
				return
			}
			if !yield(live[i:min(i+batchSize, len(live))], nil) {
				return
			}
		}
	}
}

// memIndex stores documents by id and answers ascending createdAt range queries.
type memIndex struct {
	mu        sync.Mutex
	docs      map[int64]domdoc.Document
	upserts   int
	deletes   int
	refreshes int

	upsertErr  error
	refreshErr error
}

func newMemIndex(docs ...domdoc.Document) *memIndex {
	m := &memIndex{docs: make(map[int64]domdoc.Document)}
	for _, d := range docs {
		m.docs[d.ID()] = d
	}
	return m
}

func (m *memIndex) BulkUpsert(_ context.Context, docs []domdoc.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	for _, d := range docs {
		m.docs[d.ID()] = d
	}
	return nil
}

func (m *memIndex) Delete(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *memIndex) Refresh(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return m.refreshErr
}

func (m *memIndex) Query(_ context.Context, q query.Query) (query.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]domdoc.Document, 0, len(m.docs))
	for _, d := range m.docs {
		all = append(all, d)
	}
	slices.SortFunc(all, func(a, b domdoc.Document) int {
		if a.CreatedAt() != b.CreatedAt() {
			return cmpInt(a.CreatedAt(), b.CreatedAt())
		}
		return cmpInt(a.ID(), b.ID())
	})

	var res query.Result
	for _, d := range all {
		if q.After != nil && pos(d, q.After.SortKey(), q.After.ID()) <= 0 {
			continue
		}
		if q.Until != nil && pos(d, q.Until.SortKey(), q.Until.ID()) > 0 {
			continue
		}
		if len(res.Hits) == q.Limit {
			res.HasNext = true
			break
		}
		res.Hits = append(res.Hits, query.Hit{ID: d.ID(), SortKey: d.CreatedAt()})
	}
	return res, nil
}

func (m *memIndex) snapshot() map[int64]map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]map[string]string, len(m.docs))
	for id, d := range m.docs {
		out[id] = d.Fields()
	}
	return out
}

func pos(d domdoc.Document, key, id int64) int {
	if d.CreatedAt() != key {
		return cmpInt(d.CreatedAt(), key)
	}
	return cmpInt(d.ID(), id)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// memLocker is a single-key lease without expiry.
type memLocker struct {
	mu       sync.Mutex
	owner    string
	held     bool
	extended int
	unlocked int
	err      error

	// lost makes the holder lose the lease on its next Extend or Unlock.
	lost bool
	// unlockLost makes only Unlock report the lease as gone.
	unlockLost bool
}

func (l *memLocker) TryLock(_ context.Context, _, owner string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.owner, l.held = owner, true
	return true, nil
}

func (l *memLocker) Extend(_ context.Context, _, owner string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lost || !l.held || l.owner != owner {
		return false, nil
	}
	l.extended++
	return true, nil
}

func (l *memLocker) Unlock(_ context.Context, _, owner string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lost || l.unlockLost || !l.held || l.owner != owner {
		return false, nil
	}
	l.held = false
	l.unlocked++
	return true, nil
}

// ttlLocker behaves like SET NX PX: a lease not extended within its ttl expires.
type ttlLocker struct {
	mu      sync.Mutex
	owner   string
	expires time.Time
}

func (l *ttlLocker) heldBy(owner string) bool {
	return l.owner == owner && time.Now().Before(l.expires)
}

func (l *ttlLocker) TryLock(_ context.Context, _, owner string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != "" && time.Now().Before(l.expires) {
		return false, nil
	}
	l.owner, l.expires = owner, time.Now().Add(ttl)
	return true, nil
}

func (l *ttlLocker) Extend(_ context.Context, _, owner string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.heldBy(owner) {
		return false, nil
	}
	l.expires = time.Now().Add(ttl)
	return true, nil
}

func (l *ttlLocker) Unlock(_ context.Context, _, owner string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.heldBy(owner) {
		return false, nil
	}
	l.owner = ""
	return true, nil
}

// steal hands the lease to another owner, as if it had expired and been re-acquired.
func (l *ttlLocker) steal(owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.owner, l.expires = owner, time.Now().Add(time.Hour)
}

var baseTime = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func rec(id int64, createdOffset time.Duration, likes int64) record.Record {
	return record.Reconstruct(record.Fields{
		ID:                id,
		AuthorID:          1,
		Content:           "post",
		SkyStatus:         record.SkyClear,
		PrecipitationType: record.PrecipitationNone,
		LikeCount:         likes,
		CreatedAt:         baseTime.Add(createdOffset),
		UpdatedAt:         baseTime.Add(createdOffset),
	})
}

func deleted(r record.Record) record.Record {
	at := baseTime
	return record.Reconstruct(record.Fields{
		ID:        r.ID(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
		DeletedAt: &at,
	})
}

// fixture returns n live records, three per timestamp.
func fixture(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = rec(int64(i+1), time.Duration(i/3)*time.Second, int64(i%5))
	}
	return out
}

func expectedIndex(recs []record.Record) map[int64]map[string]string {
	out := make(map[int64]map[string]string)
	for _, r := range recs {
		if !r.IsDeleted() {
			out[r.ID()] = domdoc.FromRecord(r).Fields()
		}
	}
	return out
}
