package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agendo/models"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleProvider implements Provider on the Google Calendar API.
type GoogleProvider struct {
	svc     *calendar.Service
	timeout time.Duration
}

// NewGoogleProvider builds a provider authenticated with a service
// account credentials file.
func NewGoogleProvider(ctx context.Context, credentialsFile string, timeout time.Duration) (*GoogleProvider, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize google calendar client: %w", err)
	}
	return &GoogleProvider{svc: svc, timeout: timeout}, nil
}

func (p *GoogleProvider) GetBusyPeriods(ctx context.Context, calendarRef string, from, to time.Time) ([]models.BusyPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := &calendar.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarRef}},
	}
	resp, err := p.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[calendarRef]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from freebusy response", calendarRef)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy reported error for calendar %s: %s", calendarRef, cal.Errors[0].Reason)
	}

	busy := make([]models.BusyPeriod, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid busy period start %q: %w", b.Start, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("invalid busy period end %q: %w", b.End, err)
		}
		busy = append(busy, models.BusyPeriod{Start: start, End: end})
	}
	return busy, nil
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, calendarRef string, ev Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	event := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}
	created, err := p.svc.Events.Insert(calendarRef, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created.Id, nil
}

func (p *GoogleProvider) DeleteEvent(ctx context.Context, calendarRef, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.svc.Events.Delete(calendarRef, eventID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	// An event deleted out-of-band counts as already cancelled.
	if gErr, ok := err.(*googleapi.Error); ok {
		if gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone {
			return nil
		}
	}
	return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
}
