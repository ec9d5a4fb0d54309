// Package usecase defines the sentinel errors shared by all services. These
// values let handlers distinguish the expected, recoverable reservation
// outcomes (seat taken, hold expired, cap reached) from genuine faults and
// map each to the right HTTP status. None of them is fatal; only storage
// failures propagate as unclassified errors.
package usecase

import (
	"errors"
	"fmt"

	"seat-chart/pkg/utils"
)

var (
	// ErrMapFrozen is returned when an authoring mutation is attempted
	// after the chart has been published.
	ErrMapFrozen = errors.New("seat map is frozen")

	// ErrMapNotFound / ErrSeatNotFound / ErrCategoryNotFound signal a
	// reference to an entity that does not exist.
	ErrMapNotFound      = errors.New("seat map not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrCategoryNotFound = errors.New("price category not found")

	// ErrSeatUnavailable is the normal losing outcome of a hold race: the
	// seat is held by someone else or already sold.
	ErrSeatUnavailable = errors.New("seat not available")

	// ErrSeatBlocked is returned for hold requests against a seat the
	// organizer marked permanently unsellable.
	ErrSeatBlocked = errors.New("seat is blocked")

	// ErrNotHolder is returned when a release or commit is attempted by a
	// token that does not own the current hold.
	ErrNotHolder = errors.New("not the holder of this seat")

	// ErrHoldExpired is returned when a commit arrives at or after the
	// hold's expiry instant.
	ErrHoldExpired = errors.New("hold has expired")

	// ErrSelectionLimit is returned when a session tries to hold more seats
	// than its per-checkout cap. Checked before the reservation engine is
	// contacted.
	ErrSelectionLimit = errors.New("selection limit reached")

	// ErrSessionNotFound is returned for operations on an unknown or
	// already-destroyed selection session.
	ErrSessionNotFound = errors.New("selection session not found")
)

// ValidationError carries per-field messages for rejected authoring input
// (bad geometry, unknown category, duplicate position). Nothing is written
// when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Upload rejection reason codes reported by the image storage collaborator.
const (
	UploadReasonInvalidType = "invalid_type"
	UploadReasonTooLarge    = "too_large"
)

// UploadRejectedError is returned when a chart image fails upload
// validation.
type UploadRejectedError struct {
	Reason string // invalid_type | too_large
	Detail string
}

func (e *UploadRejectedError) Error() string {
	return fmt.Sprintf("upload rejected (%s): %s", e.Reason, e.Detail)
}
