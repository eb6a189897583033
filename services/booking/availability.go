package booking

import (
	"time"

	"agendo/models"
)

// FilterAgainstBusy annotates each candidate against the busy intervals,
// returning a list of the same length and order. A candidate conflicts
// when its buffered interval [start-buffer, end+buffer) overlaps a busy
// [start, end) under half-open semantics, so touching endpoints do not
// conflict. Conflicting slots stay in the list, marked unavailable with
// reason "busy"; callers want the full grid, not just the openings.
func FilterAgainstBusy(candidates []models.GeneratedSlot, busy []models.BusyPeriod, buffer time.Duration) []models.GeneratedSlot {
	out := make([]models.GeneratedSlot, len(candidates))
	for i, slot := range candidates {
		out[i] = slot
		if overlapsAny(slot.Start.Add(-buffer), slot.End.Add(buffer), busy) {
			out[i].Available = false
			out[i].ConflictReason = ReasonBusy
		}
	}
	return out
}

// MarkAllUnavailable flags every candidate with the given reason. Used to
// fail closed when the busy-period source is unreachable: a day with no
// bookable time is safer than a double booking.
func MarkAllUnavailable(candidates []models.GeneratedSlot, reason string) []models.GeneratedSlot {
	out := make([]models.GeneratedSlot, len(candidates))
	for i, slot := range candidates {
		out[i] = slot
		out[i].Available = false
		out[i].ConflictReason = reason
	}
	return out
}

func overlapsAny(start, end time.Time, busy []models.BusyPeriod) bool {
	for _, b := range busy {
		// Half-open: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
