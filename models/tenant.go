package models

import (
	"strings"
	"time"
)

// Tenant is an independent business offering bookings through the engine.
// All appointment data is partitioned by tenant. Tenants are read-only for
// the engine; administration happens elsewhere.
type Tenant struct {
	ID                 string                   `bson:"id" json:"id"`
	Name               string                   `bson:"name" json:"name"`
	Timezone           string                   `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Madrid"
	Locale             string                   `bson:"locale,omitempty" json:"locale,omitempty"`
	Active             bool                     `bson:"active" json:"active"`
	Hours              map[string]BusinessHours `bson:"hours" json:"hours"` // keyed by lowercase weekday name
	SlotGranularityMin int                      `bson:"slotGranularityMin" json:"slotGranularityMin"`
	MaxAdvanceDays     int                      `bson:"maxAdvanceDays" json:"maxAdvanceDays"`
	SameDayBooking     bool                     `bson:"sameDayBooking" json:"sameDayBooking"`
	CalendarRef        string                   `bson:"calendarRef,omitempty" json:"calendarRef,omitempty"`
	CreatedAt          time.Time                `bson:"created_at" json:"created_at"`
}

// HoursFor returns the configured hours for a weekday. Days with no entry
// are treated as closed.
func (t Tenant) HoursFor(day time.Weekday) BusinessHours {
	if h, ok := t.Hours[strings.ToLower(day.String())]; ok {
		return h
	}
	return BusinessHours{Kind: HoursClosed}
}

// Location resolves the tenant's IANA timezone.
func (t Tenant) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}
