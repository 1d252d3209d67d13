// Package cursor encodes and decodes keyset pagination positions.
//
// A cursor is the pair (sort value, tie-break id) of the last item of a page.
// Timestamps are rendered as RFC 3339 with nanoseconds in UTC, counters and ids
// as base-10 integers. The encoding is locale independent and carries no state.
package cursor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
)

// Cursor is a decoded pagination position.
type Cursor struct {
	field     order.Field
	createdAt time.Time
	likeCount int64
	id        int64
}

// FromCreatedAt builds a createdAt cursor.
func FromCreatedAt(t time.Time, id int64) Cursor {
	return Cursor{field: order.CreatedAt, createdAt: t.UTC(), id: id}
}

// FromLikeCount builds a likeCount cursor.
func FromLikeCount(n, id int64) Cursor {
	return Cursor{field: order.LikeCount, likeCount: n, id: id}
}

// FromSortKey builds a cursor from the numeric sort key stored in the index
// (unix microseconds for createdAt, the raw counter for likeCount).
func FromSortKey(field order.Field, key, id int64) Cursor {
	if field.IsTimestamp() {
		return FromCreatedAt(time.UnixMicro(key), id)
	}
	return FromLikeCount(key, id)
}

// Field returns the sort field the cursor belongs to.
func (c Cursor) Field() order.Field { return c.field }

// CreatedAt returns the timestamp sort value.
func (c Cursor) CreatedAt() time.Time { return c.createdAt }

// LikeCount returns the counter sort value.
func (c Cursor) LikeCount() int64 { return c.likeCount }

// ID returns the tie-break identifier.
func (c Cursor) ID() int64 { return c.id }

// SortKey returns the sort value in the numeric form stored in the index.
func (c Cursor) SortKey() int64 {
	if c.field.IsTimestamp() {
		return c.createdAt.UnixMicro()
	}
	return c.likeCount
}

// Encode renders the cursor as the (cursor, idAfter) wire pair.
func (c Cursor) Encode() (cursor, idAfter string) {
	if c.field.IsTimestamp() {
		cursor = c.createdAt.UTC().Format(time.RFC3339Nano)
	} else {
		cursor = strconv.FormatInt(c.likeCount, 10)
	}
	return cursor, strconv.FormatInt(c.id, 10)
}

// Decode parses a (cursor, idAfter) wire pair for the given sort field.
func Decode(field order.Field, cursor, idAfter string) (Cursor, error) {
	id, err := strconv.ParseInt(idAfter, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("idAfter %q: %w", idAfter, domain.ErrMalformedCursor)
	}

	switch field {
	case order.CreatedAt:
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return Cursor{}, fmt.Errorf("cursor %q is not a timestamp: %w", cursor, domain.ErrMalformedCursor)
		}
		return FromCreatedAt(t, id), nil
	case order.LikeCount:
		n, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return Cursor{}, fmt.Errorf("cursor %q is not a counter: %w", cursor, domain.ErrMalformedCursor)
		}
		return FromLikeCount(n, id), nil
	default:
		return Cursor{}, fmt.Errorf("sortBy %q: %w", field, domain.ErrInvalidSortField)
	}
}
