package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"agendo/models"
)

var (
	// ErrOverlap is returned when an insert would overlap a blocking row.
	ErrOverlap = errors.New("appointment overlaps an existing booking")
	// ErrNotFound is returned when no row matches tenant+id.
	ErrNotFound = errors.New("appointment not found")
	// ErrStatusConflict is returned when a guarded status update finds the
	// row in a different state than expected.
	ErrStatusConflict = errors.New("appointment is not in the expected status")
)

// StatusUpdate carries the optional fields set alongside a status change.
type StatusUpdate struct {
	CalendarEventID string     // set on confirm
	ExpiresAt       *time.Time // set on hold extension
	ClearExpiresAt  bool       // clear on confirm
	UnexpiredAt     *time.Time // when set, the row's expires_at must still be after this instant
}

// Repository is the appointment store contract. The store is the single
// arbiter of booking conflicts: InsertIfNoOverlap must be atomic so that
// of two concurrent inserts for overlapping intervals exactly one wins.
type Repository interface {
	// InsertIfNoOverlap inserts appt unless a blocking row (confirmed, or
	// pending with an unexpired hold) overlaps its [Start,End) interval.
	// Returns ErrOverlap when the interval is taken.
	InsertIfNoOverlap(ctx context.Context, appt *models.Appointment) error

	// GetByID fetches a row scoped to a tenant. Returns ErrNotFound.
	GetByID(ctx context.Context, tenantID, id string) (*models.Appointment, error)

	// UpdateStatus transitions a row from one status to another. A non-empty
	// `from` guards the transition; ErrStatusConflict is returned when the
	// row exists but is in another state.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to models.AppointmentStatus, extra StatusUpdate) error

	// FindOverlapping returns blocking rows intersecting [start,end) for a
	// tenant. Pending rows whose hold expired before `now` are excluded even
	// if the sweep has not flipped them yet.
	FindOverlapping(ctx context.Context, tenantID string, start, end, now time.Time) ([]models.Appointment, error)

	// FindExpiredPending returns pending rows whose hold expired before now,
	// across all tenants. Used by the sweep.
	FindExpiredPending(ctx context.Context, now time.Time) ([]models.Appointment, error)
}
