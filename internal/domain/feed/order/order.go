package order

import (
	"fmt"

	"github.com/kailas-cloud/feedex/internal/domain"
)

// Field is a sortable feed attribute.
type Field string

// Supported sort fields.
const (
	CreatedAt Field = "createdAt"
	LikeCount Field = "likeCount"
)

// DefaultField is used when the caller omits sortBy.
const DefaultField = CreatedAt

// ParseField validates sortBy against the allow-list. Empty means DefaultField.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case "":
		return DefaultField, nil
	case CreatedAt, LikeCount:
		return f, nil
	default:
		return "", fmt.Errorf("sortBy %q: %w", s, domain.ErrInvalidSortField)
	}
}

// IsTimestamp reports whether the field carries a timestamp.
func (f Field) IsTimestamp() bool { return f == CreatedAt }

// String returns the wire name.
func (f Field) String() string { return string(f) }

// Direction is the sort direction.
type Direction string

// Supported directions.
const (
	Ascending  Direction = "ASCENDING"
	Descending Direction = "DESCENDING"
)

// DefaultDirection is used when the caller omits sortDirection.
const DefaultDirection = Descending

// ParseDirection validates sortDirection. Empty means DefaultDirection.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case "":
		return DefaultDirection, nil
	case Ascending, Descending:
		return d, nil
	default:
		return "", fmt.Errorf("sortDirection %q: %w", s, domain.ErrInvalidSortDirection)
	}
}

// IsDescending reports whether d is DESCENDING.
func (d Direction) IsDescending() bool { return d == Descending }

// String returns the wire name.
func (d Direction) String() string { return string(d) }
