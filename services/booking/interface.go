package booking

import (
	"context"
	"time"

	appointmentRepo "agendo/database/repository/appointment"
	customerRepo "agendo/database/repository/customer"
	tenantRepo "agendo/database/repository/tenant"
	"agendo/models"
	"agendo/services/calendar"
)

// BookRequest is the caller payload for booking an explicit interval.
type BookRequest struct {
	ServiceID     string    `json:"serviceId" binding:"required"`
	CustomerName  string    `json:"customerName" binding:"required"`
	CustomerPhone string    `json:"customerPhone" binding:"required"`
	Start         time.Time `json:"start" binding:"required"`
	End           time.Time `json:"end" binding:"required"`
}

// BookResult reports the outcome of BookSlot. On conflict, Alternatives
// carries the next open slots of the same date so the caller can offer
// them without a second round trip.
type BookResult struct {
	Success         bool                   `json:"success"`
	AppointmentID   string                 `json:"appointmentId,omitempty"`
	CalendarEventID string                 `json:"calendarEventId,omitempty"`
	ConflictReason  string                 `json:"conflictReason,omitempty"`
	Alternatives    []models.GeneratedSlot `json:"alternatives,omitempty"`
}

// ConfirmResult reports a successful confirmation.
type ConfirmResult struct {
	Success         bool   `json:"success"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
}

// Service is the booking engine surface consumed by the messaging/API
// layer. All operations are tenant-scoped and stateless per call.
type Service interface {
	ListServices(ctx context.Context, tenantID string) ([]models.Service, error)
	CheckAvailability(ctx context.Context, tenantID, serviceID, date string) ([]models.GeneratedSlot, error)
	BookSlot(ctx context.Context, tenantID string, req BookRequest) (*BookResult, error)
	Confirm(ctx context.Context, tenantID, appointmentID string) (*ConfirmResult, error)
	Cancel(ctx context.Context, tenantID, appointmentID string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Appointments appointmentRepo.Repository
	Tenants      tenantRepo.Repository
	Customers    customerRepo.Repository
	Calendar     calendar.Provider
	Holds        *HoldManager

	DirectHold       time.Duration // short hold placed by BookSlot before its immediate confirm
	AlternativeSlots int           // how many alternatives to return on conflict
}
