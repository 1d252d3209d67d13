package feedex

import (
	"context"
	"iter"
	"time"

	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
)

// ListFeeds returns one page of the feed. Client errors (ErrInvalidSortField,
// ErrMalformedCursor, ...) are returned before any I/O.
func (c *Client) ListFeeds(ctx context.Context, p ListParams) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("feed.list", start, err) }()

	req, err := request.New(toRequestParams(p))
	if err != nil {
		return Page{}, err
	}
	pg, err := c.feedSvc.GetPage(ctx, req)
	if err != nil {
		return Page{}, err
	}
	return fromPage(pg), nil
}

// AllFeeds walks the whole feed from p onwards, following cursors page by
// page. Iteration stops at the first error, which is yielded once.
func (c *Client) AllFeeds(ctx context.Context, p ListParams) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for {
			pg, err := c.ListFeeds(ctx, p)
			if err != nil {
				yield(Item{}, err)
				return
			}
			for _, it := range pg.Items {
				if !yield(it, nil) {
					return
				}
			}
			if !pg.HasNext {
				return
			}
			p.Cursor, p.IDAfter = pg.NextCursor, pg.NextIDAfter
		}
	}
}
