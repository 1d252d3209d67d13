package document

import (
	"strconv"

	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// Hash field names of a feed document in the search index.
const (
	FieldID                = "rid"
	FieldCreatedAt         = "created_at"
	FieldLikeCount         = "like_count"
	FieldContent           = "content"
	FieldSkyStatus         = "sky_status"
	FieldPrecipitationType = "precipitation_type"
	FieldAuthorID          = "author_id"
	FieldUpdatedAt         = "updated_at"
)

// Document is the search-index projection of a Record.
// Timestamps are unix microseconds so they sort as numerics.
type Document struct {
	id                int64
	createdAt         int64
	likeCount         int64
	content           string
	skyStatus         string
	precipitationType string
	authorID          int64
	updatedAt         int64
}

// FromRecord projects a record into its index document. Pure.
func FromRecord(r record.Record) Document {
	return Document{
		id:                r.ID(),
		createdAt:         r.CreatedAt().UnixMicro(),
		likeCount:         r.LikeCount(),
		content:           r.Content(),
		skyStatus:         string(r.SkyStatus()),
		precipitationType: string(r.PrecipitationType()),
		authorID:          r.AuthorID(),
		updatedAt:         r.UpdatedAt().UnixMicro(),
	}
}

// ID returns the record identifier the document mirrors.
func (d Document) ID() int64 { return d.id }

// CreatedAt returns the creation time in unix microseconds.
func (d Document) CreatedAt() int64 { return d.createdAt }

// LikeCount returns the popularity counter.
func (d Document) LikeCount() int64 { return d.likeCount }

// Content returns the searchable text.
func (d Document) Content() string { return d.content }

// Fields renders the full hash. Every field is always present so that
// writing the hash replaces the previous version completely.
func (d Document) Fields() map[string]string {
	return map[string]string{
		FieldID:                strconv.FormatInt(d.id, 10),
		FieldCreatedAt:         strconv.FormatInt(d.createdAt, 10),
		FieldLikeCount:         strconv.FormatInt(d.likeCount, 10),
		FieldContent:           d.content,
		FieldSkyStatus:         d.skyStatus,
		FieldPrecipitationType: d.precipitationType,
		FieldAuthorID:          strconv.FormatInt(d.authorID, 10),
		FieldUpdatedAt:         strconv.FormatInt(d.updatedAt, 10),
	}
}
