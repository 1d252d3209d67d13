package page

import (
	"time"

	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// Item is the response DTO for one feed post.
type Item struct {
	ID                int64     `json:"id"`
	AuthorID          int64     `json:"authorId"`
	Content           string    `json:"content"`
	SkyStatus         string    `json:"skyStatus"`
	PrecipitationType string    `json:"precipitationType"`
	LikeCount         int64     `json:"likeCount"`
	CommentCount      int64     `json:"commentCount"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Projector maps a hydrated record to its response DTO. Must be pure.
type Projector func(record.Record) Item

// FromRecord is the default Projector.
func FromRecord(r record.Record) Item {
	return Item{
		ID:                r.ID(),
		AuthorID:          r.AuthorID(),
		Content:           r.Content(),
		SkyStatus:         string(r.SkyStatus()),
		PrecipitationType: string(r.PrecipitationType()),
		LikeCount:         r.LikeCount(),
		CommentCount:      r.CommentCount(),
		CreatedAt:         r.CreatedAt().UTC(),
		UpdatedAt:         r.UpdatedAt().UTC(),
	}
}

// Page is one page of a cursor-paginated listing.
// NextCursor and NextIDAfter are set iff HasNext is true.
type Page struct {
	Data          []Item          `json:"data"`
	NextCursor    *string         `json:"nextCursor"`
	NextIDAfter   *string         `json:"nextIdAfter"`
	HasNext       bool            `json:"hasNext"`
	TotalCount    int64           `json:"totalCount"`
	SortBy        order.Field     `json:"sortBy"`
	SortDirection order.Direction `json:"sortDirection"`
}
