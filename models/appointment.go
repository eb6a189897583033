package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment row.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusExpired   AppointmentStatus = "expired"
)

// Terminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled || s == StatusExpired
}

// Appointment is a booked or held [Start,End) interval for a tenant.
//
// Rows start as pending holds with ExpiresAt set; confirming clears
// ExpiresAt and records the external calendar event id. At most one
// non-cancelled, non-expired row may overlap any other per tenant; the
// store enforces this atomically at insert time.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	TenantID        string            `bson:"tenant_id" json:"tenant_id"`
	CustomerID      string            `bson:"customer_id" json:"customer_id"`
	ServiceID       string            `bson:"service_id" json:"service_id"`
	Start           time.Time         `bson:"start" json:"start"`
	End             time.Time         `bson:"end" json:"end"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	CalendarEventID string            `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
	ExpiresAt       *time.Time        `bson:"expires_at,omitempty" json:"expires_at,omitempty"` // pending only
}

// HoldExpired reports whether a pending row's hold window has passed.
// Such rows no longer block availability even before the sweep runs.
func (a Appointment) HoldExpired(now time.Time) bool {
	return a.Status == StatusPending && a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}

// Blocking reports whether the row should count as busy time at instant now.
func (a Appointment) Blocking(now time.Time) bool {
	switch a.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return !a.HoldExpired(now)
	default:
		return false
	}
}
