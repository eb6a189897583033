package booking

import (
	"fmt"
	"time"

	"agendo/models"
)

// GenerateSlots produces the ordered candidate slots for a service on a
// calendar date, honoring the tenant's business hours for that weekday.
//
// Each open window is swept independently: a candidate of exactly the
// service duration starts at window open, then the cursor advances by the
// slot granularity. A candidate is emitted only when it ends at or before
// window close, so nothing crosses a split-shift midday gap. Granularity
// smaller than duration intentionally yields overlapping candidates:
// granularity controls offer density, duration controls slot length.
//
// All boundaries are wall-clock times anchored on the requested date in
// the tenant's timezone; closed days produce an empty list without error.
func GenerateSlots(tenant models.Tenant, svc models.Service, date time.Time) ([]models.GeneratedSlot, error) {
	if svc.DurationMin <= 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("service %s has no duration", svc.ID)}
	}
	granularity := svc.Granularity(tenant)
	if granularity <= 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("no slot granularity configured for service %s", svc.ID)}
	}

	loc, err := tenant.Location()
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("tenant %s has invalid timezone %q", tenant.ID, tenant.Timezone)}
	}

	hours := tenant.HoursFor(date.Weekday())
	duration := time.Duration(svc.DurationMin) * time.Minute

	var slots []models.GeneratedSlot
	for _, w := range hours.Windows() {
		open, err := models.MinutesOfDay(w.Open)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
		close, err := models.MinutesOfDay(w.Close)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}

		for cursor := open; cursor+svc.DurationMin <= close; cursor += granularity {
			start := models.AtDate(date, cursor, loc)
			slots = append(slots, models.GeneratedSlot{
				Start:     start,
				End:       start.Add(duration),
				ServiceID: svc.ID,
				Available: true,
			})
		}
	}
	return slots, nil
}
