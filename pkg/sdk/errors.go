package feedex

import "github.com/kailas-cloud/feedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidSortField      = domain.ErrInvalidSortField
	ErrInvalidSortDirection  = domain.ErrInvalidSortDirection
	ErrInvalidLimit          = domain.ErrInvalidLimit
	ErrMalformedCursor       = domain.ErrMalformedCursor
	ErrInvalidFilter         = domain.ErrInvalidFilter
	ErrIndexUnavailable      = domain.ErrIndexUnavailable
	ErrStoreUnavailable      = domain.ErrStoreUnavailable
	ErrReconciliationFailed  = domain.ErrReconciliationFailed
	ErrReconciliationRunning = domain.ErrReconciliationRunning
)
