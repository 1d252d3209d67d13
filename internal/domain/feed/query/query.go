// Package query describes a keyset page request against the feed index and its result.
package query

import (
	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
)

// Query is one page request against the index.
type Query struct {
	Filter    filter.Filter
	Field     order.Field
	Direction order.Direction
	// After excludes every position up to and including the cursor.
	After *cursor.Cursor
	// Until excludes every position past the cursor; the cursor itself matches.
	Until *cursor.Cursor
	Limit int
}

// Hit is one matching document: its record id and index-side sort key.
type Hit struct {
	ID      int64
	SortKey int64
}

// Result is an ordered page of hits.
type Result struct {
	Hits    []Hit
	HasNext bool
}

// IDs returns the hit ids in page order.
func (r Result) IDs() []int64 {
	ids := make([]int64, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

// Next returns the cursor after the last hit, or nil when there is no next page.
func (r Result) Next(field order.Field) *cursor.Cursor {
	if !r.HasNext || len(r.Hits) == 0 {
		return nil
	}
	last := r.Hits[len(r.Hits)-1]
	c := cursor.FromSortKey(field, last.SortKey, last.ID)
	return &c
}
