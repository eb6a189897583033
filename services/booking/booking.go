package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "agendo/database/repository/appointment"
	tenantRepo "agendo/database/repository/tenant"
	"agendo/models"
	"agendo/services/calendar"
	"agendo/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// loadTenantService resolves and validates the tenant/service pair every
// operation starts from.
func (s *DefaultBookingService) loadTenantService(ctx context.Context, tenantID, serviceID string) (*models.Tenant, *models.Service, error) {
	tenant, err := s.Tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "tenant", ID: tenantID}
		}
		return nil, nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}
	if !tenant.Active {
		return nil, nil, &ValidationError{Message: fmt.Sprintf("tenant %s is not active", tenantID)}
	}

	svc, err := s.Tenants.GetServiceByID(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "service", ID: serviceID}
		}
		return nil, nil, fmt.Errorf("failed to load service %s: %w", serviceID, err)
	}
	if !svc.Active {
		return nil, nil, &ValidationError{Message: fmt.Sprintf("service %s is not active", serviceID)}
	}
	return tenant, svc, nil
}

// ListServices returns the tenant's bookable services, the entry point for
// callers that need a service id before asking for availability.
func (s *DefaultBookingService) ListServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	tenant, err := s.Tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "tenant", ID: tenantID}
		}
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}
	if !tenant.Active {
		return nil, &ValidationError{Message: fmt.Sprintf("tenant %s is not active", tenantID)}
	}

	services, err := s.Tenants.ListServices(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services for tenant %s: %w", tenantID, err)
	}
	return services, nil
}

// CheckAvailability generates the candidate grid for a date and annotates
// it against both the external calendar's busy periods and the store's
// blocking appointments. A calendar outage fails closed: the grid comes
// back with every slot unavailable instead of an error.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, tenantID, serviceID, date string) ([]models.GeneratedSlot, error) {
	logger := utils.GetLogger()

	tenant, svc, err := s.loadTenantService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	loc, err := tenant.Location()
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("tenant %s has invalid timezone %q", tenantID, tenant.Timezone)}
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date)}
	}

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, &ValidationError{Message: "date is in the past"}
	}
	if day.Equal(today) && !tenant.SameDayBooking {
		return []models.GeneratedSlot{}, nil
	}
	if tenant.MaxAdvanceDays > 0 && day.After(today.AddDate(0, 0, tenant.MaxAdvanceDays)) {
		return []models.GeneratedSlot{}, nil
	}

	slots, err := GenerateSlots(*tenant, *svc, day)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []models.GeneratedSlot{}, nil
	}

	dayStart := models.AtDate(day, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	busy, err := s.Calendar.GetBusyPeriods(ctx, tenant.CalendarRef, dayStart, dayEnd)
	if err != nil {
		// Fail closed: never offer time the calendar could not vouch for.
		logger.Warn("availability: calendar unreachable, marking day unavailable",
			zap.String("tenantID", tenantID), zap.String("date", date), zap.Error(err))
		return MarkAllUnavailable(slots, ReasonCalendarOffline), nil
	}

	appts, err := s.Appointments.FindOverlapping(ctx, tenantID, dayStart, dayEnd, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load existing appointments: %w", err)
	}
	for _, appt := range appts {
		busy = append(busy, models.BusyPeriod{Start: appt.Start, End: appt.End})
	}

	buffer := time.Duration(svc.BufferMin) * time.Minute
	return FilterAgainstBusy(slots, busy, buffer), nil
}

// BookSlot places a short direct hold on the requested interval and
// immediately confirms it. On a hold conflict the result carries the
// conflict reason plus the next open slots of the same date; the engine
// never silently books a different slot.
func (s *DefaultBookingService) BookSlot(ctx context.Context, tenantID string, req BookRequest) (*BookResult, error) {
	tenant, svc, err := s.loadTenantService(ctx, tenantID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !req.End.After(req.Start) {
		return nil, &ValidationError{Message: "booking interval must end after it starts"}
	}
	if req.End.Sub(req.Start) != time.Duration(svc.DurationMin)*time.Minute {
		return nil, &ValidationError{Message: fmt.Sprintf("booking interval must match service duration of %d minutes", svc.DurationMin)}
	}

	customer, err := s.Customers.GetOrCreate(ctx, tenantID, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	appt, err := s.Holds.PlaceHold(ctx, tenantID, customer.ID, *svc, req.Start, req.End, s.DirectHold)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			loc, locErr := tenant.Location()
			if locErr != nil {
				return &BookResult{Success: false, ConflictReason: conflict.Reason}, nil
			}
			date := req.Start.In(loc).Format(dateLayout)
			return &BookResult{
				Success:        false,
				ConflictReason: conflict.Reason,
				Alternatives:   s.alternativesFor(ctx, tenantID, req.ServiceID, date),
			}, nil
		}
		return nil, err
	}

	confirm, err := s.Confirm(ctx, tenantID, appt.ID)
	if err != nil {
		// The hold stands (still pending) so the caller can retry Confirm;
		// surface the failure with the appointment id attached.
		return &BookResult{Success: false, AppointmentID: appt.ID}, err
	}

	return &BookResult{
		Success:         true,
		AppointmentID:   appt.ID,
		CalendarEventID: confirm.CalendarEventID,
	}, nil
}

// alternativesFor returns up to AlternativeSlots open slots for the date,
// chronological. Best effort: errors degrade to no alternatives.
func (s *DefaultBookingService) alternativesFor(ctx context.Context, tenantID, serviceID, date string) []models.GeneratedSlot {
	logger := utils.GetLogger()

	slots, err := s.CheckAvailability(ctx, tenantID, serviceID, date)
	if err != nil {
		logger.Warn("failed to compute alternative slots",
			zap.String("tenantID", tenantID), zap.String("date", date), zap.Error(err))
		return nil
	}

	var open []models.GeneratedSlot
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		open = append(open, slot)
		if len(open) >= s.AlternativeSlots {
			break
		}
	}
	return open
}

// Confirm re-validates the hold, creates the external calendar event, and
// only then flips the row to confirmed with the event id recorded. A
// calendar failure leaves the row pending and is surfaced for retry; an
// expired hold is a definite, non-retryable conflict.
func (s *DefaultBookingService) Confirm(ctx context.Context, tenantID, appointmentID string) (*ConfirmResult, error) {
	tenant, err := s.Tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "tenant", ID: tenantID}
		}
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}

	appt, err := s.Appointments.GetByID(ctx, tenantID, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "appointment", ID: appointmentID}
		}
		return nil, fmt.Errorf("failed to load appointment %s: %w", appointmentID, err)
	}

	switch appt.Status {
	case models.StatusConfirmed:
		// Retried confirmation of an already-confirmed row succeeds.
		return &ConfirmResult{Success: true, CalendarEventID: appt.CalendarEventID}, nil
	case models.StatusPending:
		if appt.HoldExpired(time.Now()) {
			return nil, &ConflictError{Reason: ReasonHoldExpired}
		}
	default:
		return nil, &ConflictError{Reason: ReasonNotPending}
	}

	summary := s.eventSummary(ctx, tenant, appt)
	eventID, err := s.Calendar.CreateEvent(ctx, tenant.CalendarRef, calendar.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Appointment %s", appt.ID),
		Start:       appt.Start,
		End:         appt.End,
	})
	if err != nil {
		return nil, &UpstreamError{Op: "calendar.CreateEvent", Err: err}
	}

	now := time.Now()
	err = s.Appointments.UpdateStatus(ctx, tenantID, appointmentID,
		models.StatusPending, models.StatusConfirmed,
		appointmentRepo.StatusUpdate{CalendarEventID: eventID, ClearExpiresAt: true, UnexpiredAt: &now})
	if err != nil {
		// The hold raced the sweep or a release, or lapsed while the
		// calendar call was in flight. Remove the orphaned event so the
		// calendar stays consistent.
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			if delErr := s.Calendar.DeleteEvent(ctx, tenant.CalendarRef, eventID); delErr != nil {
				utils.GetLogger().Error("failed to delete orphaned calendar event",
					zap.String("eventID", eventID), zap.Error(delErr))
			}
			return nil, &ConflictError{Reason: ReasonHoldExpired}
		}
		return nil, fmt.Errorf("failed to confirm appointment %s: %w", appointmentID, err)
	}

	return &ConfirmResult{Success: true, CalendarEventID: eventID}, nil
}

// Cancel tears an appointment down. Confirmed rows lose their calendar
// event first (an already-deleted event counts as success), pending rows
// are released, and cancelling a terminal row is an idempotent no-op.
func (s *DefaultBookingService) Cancel(ctx context.Context, tenantID, appointmentID string) error {
	appt, err := s.Appointments.GetByID(ctx, tenantID, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return &NotFoundError{Resource: "appointment", ID: appointmentID}
		}
		return fmt.Errorf("failed to load appointment %s: %w", appointmentID, err)
	}

	switch appt.Status {
	case models.StatusCancelled, models.StatusExpired:
		return nil
	case models.StatusPending:
		return s.Holds.ReleaseHold(ctx, tenantID, appointmentID)
	}

	if appt.CalendarEventID != "" {
		tenant, err := s.Tenants.GetTenantByID(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
		}
		if err := s.Calendar.DeleteEvent(ctx, tenant.CalendarRef, appt.CalendarEventID); err != nil {
			return &UpstreamError{Op: "calendar.DeleteEvent", Err: err}
		}
	}

	err = s.Appointments.UpdateStatus(ctx, tenantID, appointmentID,
		models.StatusConfirmed, models.StatusCancelled, appointmentRepo.StatusUpdate{})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			// Concurrent cancel already got there.
			return nil
		}
		return fmt.Errorf("failed to cancel appointment %s: %w", appointmentID, err)
	}
	return nil
}

// eventSummary builds the calendar event title; the customer name is best
// effort.
func (s *DefaultBookingService) eventSummary(ctx context.Context, tenant *models.Tenant, appt *models.Appointment) string {
	svcName := appt.ServiceID
	if svc, err := s.Tenants.GetServiceByID(ctx, tenant.ID, appt.ServiceID); err == nil {
		svcName = svc.Name
	}
	if customer, err := s.Customers.GetByID(ctx, tenant.ID, appt.CustomerID); err == nil && customer.Name != "" {
		return fmt.Sprintf("%s - %s", svcName, customer.Name)
	}
	return svcName
}
