package record

import (
	"fmt"
	"time"
)

// SkyStatus is the sky condition a post was written under.
type SkyStatus string

// Sky status values.
const (
	SkyClear        SkyStatus = "CLEAR"
	SkyMostlyCloudy SkyStatus = "MOSTLY_CLOUDY"
	SkyCloudy       SkyStatus = "CLOUDY"
)

// ParseSkyStatus validates a sky status string.
func ParseSkyStatus(s string) (SkyStatus, error) {
	switch v := SkyStatus(s); v {
	case SkyClear, SkyMostlyCloudy, SkyCloudy:
		return v, nil
	default:
		return "", fmt.Errorf("unknown sky status %q", s)
	}
}

// PrecipitationType is the precipitation a post was written under.
type PrecipitationType string

// Precipitation type values.
const (
	PrecipitationNone     PrecipitationType = "NONE"
	PrecipitationRain     PrecipitationType = "RAIN"
	PrecipitationRainSnow PrecipitationType = "RAIN_SNOW"
	PrecipitationSnow     PrecipitationType = "SNOW"
	PrecipitationShower   PrecipitationType = "SHOWER"
)

// ParsePrecipitationType validates a precipitation type string.
func ParsePrecipitationType(s string) (PrecipitationType, error) {
	switch v := PrecipitationType(s); v {
	case PrecipitationNone, PrecipitationRain, PrecipitationRainSnow, PrecipitationSnow, PrecipitationShower:
		return v, nil
	default:
		return "", fmt.Errorf("unknown precipitation type %q", s)
	}
}

// Record is a feed post as stored in the record store.
// Mutated only by the write-side service; read here by id batch or keyset walk.
type Record struct {
	id                int64
	authorID          int64
	content           string
	skyStatus         SkyStatus
	precipitationType PrecipitationType
	likeCount         int64
	commentCount      int64
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

// Fields carries all record columns for Reconstruct.
type Fields struct {
	ID                int64
	AuthorID          int64
	Content           string
	SkyStatus         SkyStatus
	PrecipitationType PrecipitationType
	LikeCount         int64
	CommentCount      int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// Reconstruct rebuilds a Record from storage columns (no validation).
func Reconstruct(f Fields) Record {
	return Record{
		id:                f.ID,
		authorID:          f.AuthorID,
		content:           f.Content,
		skyStatus:         f.SkyStatus,
		precipitationType: f.PrecipitationType,
		likeCount:         f.LikeCount,
		commentCount:      f.CommentCount,
		createdAt:         f.CreatedAt,
		updatedAt:         f.UpdatedAt,
		deletedAt:         f.DeletedAt,
	}
}

// ID returns the record identifier.
func (r Record) ID() int64 { return r.id }

// AuthorID returns the owner identifier.
func (r Record) AuthorID() int64 { return r.authorID }

// Content returns the post body.
func (r Record) Content() string { return r.content }

// SkyStatus returns the sky condition category.
func (r Record) SkyStatus() SkyStatus { return r.skyStatus }

// PrecipitationType returns the precipitation category.
func (r Record) PrecipitationType() PrecipitationType { return r.precipitationType }

// LikeCount returns the popularity counter.
func (r Record) LikeCount() int64 { return r.likeCount }

// CommentCount returns the number of comments.
func (r Record) CommentCount() int64 { return r.commentCount }

// CreatedAt returns the creation timestamp.
func (r Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update timestamp.
func (r Record) UpdatedAt() time.Time { return r.updatedAt }

// DeletedAt returns the soft-delete timestamp, nil for live records.
func (r Record) DeletedAt() *time.Time { return r.deletedAt }

// IsDeleted reports whether the record is soft-deleted.
func (r Record) IsDeleted() bool { return r.deletedAt != nil }

// Key returns the keyset position of the record in (createdAt, id) order.
func (r Record) Key() Keyset {
	return Keyset{CreatedAt: r.createdAt, ID: r.id}
}

// Keyset is a position in the stable (createdAt, id) walk order.
type Keyset struct {
	CreatedAt time.Time
	ID        int64
}

// After reports whether k sorts strictly after o.
func (k Keyset) After(o Keyset) bool {
	if !k.CreatedAt.Equal(o.CreatedAt) {
		return k.CreatedAt.After(o.CreatedAt)
	}
	return k.ID > o.ID
}
