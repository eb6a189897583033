package booking

import (
	"fmt"

	"agendo/models"
)

// Machine-readable conflict reasons surfaced to callers.
const (
	ReasonBusy            = "busy"
	ReasonSlotTaken       = "slot_taken"
	ReasonHoldExpired     = "hold_expired"
	ReasonNotPending      = "not_pending"
	ReasonCalendarOffline = "calendar_unavailable"
)

// ValidationError signals bad caller input (unknown service, malformed
// date, out-of-range interval).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// NotFoundError signals an absent tenant, service, customer or appointment.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError signals that a slot is unavailable, a hold expired or an
// overlap was detected. Reason is stable and machine-readable;
// Alternatives, when present, are bookable slots from the same date.
type ConflictError struct {
	Reason       string
	Alternatives []models.GeneratedSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// UpstreamError signals a failing external collaborator. The wrapped error
// is preserved so callers can decide whether to retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
