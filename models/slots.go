package models

import "time"

// GeneratedSlot is a candidate booking window produced by the slot
// generator and annotated by the availability checker. Transient, never
// persisted.
type GeneratedSlot struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ServiceID      string    `json:"serviceId"`
	Available      bool      `json:"available"`
	ConflictReason string    `json:"conflictReason,omitempty"`
}

// BusyPeriod is an occupied [Start,End) interval reported by the external
// calendar. Read-time only; the engine never stores these.
type BusyPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
