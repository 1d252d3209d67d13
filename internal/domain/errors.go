package domain

import (
	"errors"
	"fmt"
)

// Client input errors. Always rejected before any I/O.
var (
	// ErrInvalidSortField signals a sortBy outside the allow-list.
	ErrInvalidSortField = errors.New("invalid sort field")
	// ErrInvalidSortDirection signals a sortDirection other than ASCENDING/DESCENDING.
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	// ErrInvalidLimit signals a limit that is not an integer.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrMalformedCursor signals a cursor/idAfter pair that does not parse.
	ErrMalformedCursor = errors.New("malformed cursor")
	// ErrInvalidFilter signals an unknown enum value or a malformed filter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Infrastructure errors. Surfaced to the caller, never retried inside the read path.
var (
	// ErrIndexUnavailable signals a search index connectivity or timeout failure.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrStoreUnavailable signals a record store connectivity or timeout failure.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Reconciliation errors.
var (
	// ErrReconciliationFailed marks a run that aborted; safe to re-run wholesale.
	ErrReconciliationFailed = errors.New("reconciliation failed")
	// ErrReconciliationRunning rejects a trigger while another run is in flight.
	ErrReconciliationRunning = errors.New("reconciliation already running")
)

// IndexUnavailable wraps err so that it matches both ErrIndexUnavailable and err.
func IndexUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrIndexUnavailable, err)
}

// StoreUnavailable wraps err so that it matches both ErrStoreUnavailable and err.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// IsClientError reports whether err is a caller input error.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortDirection) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, ErrMalformedCursor) ||
		errors.Is(err, ErrInvalidFilter)
}
