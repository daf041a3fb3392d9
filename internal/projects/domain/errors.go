package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidID         = errors.New("invalid id format")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrDuplicateTitle    = errors.New("title must be unique")
	ErrVersionConflict   = errors.New("project was modified concurrently")
	ErrTrackingActive    = errors.New("task already has an open time entry")
	ErrEntryClosed       = errors.New("time entry is already stopped")
)

// IsNotFound reports whether err is any of the absence errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrSubtaskNotFound) ||
		errors.Is(err, ErrTimeEntryNotFound)
}

// IsConflict reports whether err should be rejected as a conflicting
// write rather than retried blindly.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateTitle) ||
		errors.Is(err, ErrVersionConflict) ||
		errors.Is(err, ErrTrackingActive) ||
		errors.Is(err, ErrEntryClosed)
}

// IsBadInput reports whether err is caller error detected before any
// persistence access.
func IsBadInput(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidID)
}
