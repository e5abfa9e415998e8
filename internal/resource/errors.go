package resource

import "errors"

// Domain errors for the resource package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, resource.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when no row matches the requested key, and by
	// List on repositories configured to treat an empty table as absent.
	// It is always distinct from connectivity failures.
	ErrNotFound = errors.New("resource: not found")

	// ErrConflict is returned when a write violates referential integrity:
	// creating a row against a missing parent, or deleting a parent that
	// still has dependent rows.
	ErrConflict = errors.New("resource: conflict")
)
