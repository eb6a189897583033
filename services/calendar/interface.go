package calendar

import (
	"context"
	"time"

	"agendo/models"
)

// Event is the payload for an external calendar entry.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Provider is the external calendar contract. The calendar is the source
// of truth for busy time outside the engine: availability reads query it,
// confirmation writes to it. It may lag behind the store, so reads are
// best-effort snapshots re-validated at confirm time.
type Provider interface {
	// GetBusyPeriods returns occupied intervals on the calendar between
	// from and to.
	GetBusyPeriods(ctx context.Context, calendarRef string, from, to time.Time) ([]models.BusyPeriod, error)
	// CreateEvent creates an event and returns its id.
	CreateEvent(ctx context.Context, calendarRef string, ev Event) (string, error)
	// DeleteEvent removes an event. Deleting an already-deleted event is
	// not an error.
	DeleteEvent(ctx context.Context, calendarRef, eventID string) error
}
