package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

// MaxKeywordLength bounds the free-text keyword.
const MaxKeywordLength = 200

// Filter is the feed filter predicate shared by the page query and the count query.
type Filter struct {
	keyword            string
	skyStatuses        []record.SkyStatus
	precipitationTypes []record.PrecipitationType
	authorID           *int64
}

// New validates and normalizes a filter. A blank keyword means no keyword filter.
func New(keyword string, skyStatuses, precipitationTypes []string, authorID *int64) (Filter, error) {
	keyword = strings.TrimSpace(keyword)
	if len(keyword) > MaxKeywordLength {
		return Filter{}, fmt.Errorf("keyword longer than %d bytes: %w", MaxKeywordLength, domain.ErrInvalidFilter)
	}

	f := Filter{keyword: keyword, authorID: authorID}

	for _, s := range skyStatuses {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := record.ParseSkyStatus(s)
		if err != nil {
			return Filter{}, fmt.Errorf("skyStatus: %w: %w", domain.ErrInvalidFilter, err)
		}
		f.skyStatuses = appendUnique(f.skyStatuses, v)
	}

	for _, s := range precipitationTypes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := record.ParsePrecipitationType(s)
		if err != nil {
			return Filter{}, fmt.Errorf("precipitationType: %w: %w", domain.ErrInvalidFilter, err)
		}
		f.precipitationTypes = appendUnique(f.precipitationTypes, v)
	}

	if authorID != nil && *authorID <= 0 {
		return Filter{}, fmt.Errorf("authorId must be positive: %w", domain.ErrInvalidFilter)
	}

	return f, nil
}

// Keyword returns the trimmed free-text keyword ("" when absent).
func (f Filter) Keyword() string { return f.keyword }

// SkyStatuses returns the accepted sky statuses (any-of).
func (f Filter) SkyStatuses() []record.SkyStatus { return f.skyStatuses }

// PrecipitationTypes returns the accepted precipitation types (any-of).
func (f Filter) PrecipitationTypes() []record.PrecipitationType { return f.precipitationTypes }

// AuthorID returns the owner filter, nil when absent.
func (f Filter) AuthorID() *int64 { return f.authorID }

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool {
	return f.keyword == "" && len(f.skyStatuses) == 0 &&
		len(f.precipitationTypes) == 0 && f.authorID == nil
}

func appendUnique[T comparable](s []T, v T) []T {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}
