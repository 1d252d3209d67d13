package request

import (
	"fmt"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
)

// Params is the raw listing input as received from the transport layer.
type Params struct {
	Limit              int
	SortBy             string
	SortDirection      string
	Cursor             string
	IDAfter            string
	Keyword            string
	SkyStatuses        []string
	PrecipitationTypes []string
	AuthorID           *int64
}

// Request is a validated listing request. The limit is kept as given;
// clamping is the page assembler's job.
type Request struct {
	limit     int
	field     order.Field
	direction order.Direction
	after     *cursor.Cursor
	filter    filter.Filter
}

// New validates params. Every client error is detected here, before any I/O.
func New(p Params) (Request, error) {
	field, err := order.ParseField(p.SortBy)
	if err != nil {
		return Request{}, err
	}
	direction, err := order.ParseDirection(p.SortDirection)
	if err != nil {
		return Request{}, err
	}

	var after *cursor.Cursor
	switch {
	case p.Cursor == "" && p.IDAfter == "":
	case p.Cursor == "" || p.IDAfter == "":
		return Request{}, fmt.Errorf("cursor and idAfter must be given together: %w", domain.ErrMalformedCursor)
	default:
		c, err := cursor.Decode(field, p.Cursor, p.IDAfter)
		if err != nil {
			return Request{}, err
		}
		after = &c
	}

	f, err := filter.New(p.Keyword, p.SkyStatuses, p.PrecipitationTypes, p.AuthorID)
	if err != nil {
		return Request{}, err
	}

	return Request{
		limit:     p.Limit,
		field:     field,
		direction: direction,
		after:     after,
		filter:    f,
	}, nil
}

// Limit returns the requested page size (not normalized).
func (r Request) Limit() int { return r.limit }

// SortBy returns the validated sort field.
func (r Request) SortBy() order.Field { return r.field }

// Direction returns the validated sort direction.
func (r Request) Direction() order.Direction { return r.direction }

// After returns the decoded cursor, nil on the first page.
func (r Request) After() *cursor.Cursor { return r.after }

// Filter returns the filter predicate.
func (r Request) Filter() filter.Filter { return r.filter }
