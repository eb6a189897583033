package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "agendo/database/repository/appointment"
	"agendo/models"
	"agendo/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldManager owns the pending-appointment lifecycle: placing short-lived
// holds, extending and releasing them, and sweeping expired ones. The
// store's atomic insert is the only overlap arbiter; the manager holds no
// in-process locks.
type HoldManager struct {
	Repo         appointmentRepo.Repository
	DefaultHold  time.Duration // applied when PlaceHold gets no explicit duration
	MaxHoldTotal time.Duration // cap on CreatedAt to ExpiresAt across extensions
}

// PlaceHold atomically reserves [start,end) for a tenant with a pending
// appointment expiring after holdFor (DefaultHold when zero). Losers of a
// race on an overlapping interval get a ConflictError, never a silent
// double booking.
func (hm *HoldManager) PlaceHold(ctx context.Context, tenantID, customerID string, svc models.Service, start, end time.Time, holdFor time.Duration) (*models.Appointment, error) {
	if !end.After(start) {
		return nil, &ValidationError{Message: "hold interval must end after it starts"}
	}
	if holdFor <= 0 {
		holdFor = hm.DefaultHold
	}
	if holdFor <= 0 {
		return nil, &ValidationError{Message: "hold duration must be positive"}
	}

	now := time.Now()
	expires := now.Add(holdFor)
	appt := &models.Appointment{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		CustomerID: customerID,
		ServiceID:  svc.ID,
		Start:      start,
		End:        end,
		Status:     models.StatusPending,
		CreatedAt:  now,
		ExpiresAt:  &expires,
	}

	if err := hm.Repo.InsertIfNoOverlap(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			return nil, &ConflictError{Reason: ReasonSlotTaken}
		}
		return nil, fmt.Errorf("failed to place hold: %w", err)
	}
	return appt, nil
}

// ExtendHold pushes a pending hold's expiry out by additional time. Only
// unexpired pending holds can be extended, and never past MaxHoldTotal
// from creation.
func (hm *HoldManager) ExtendHold(ctx context.Context, tenantID, id string, additional time.Duration) (*models.Appointment, error) {
	if additional <= 0 {
		return nil, &ValidationError{Message: "extension must be positive"}
	}

	appt, err := hm.Repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "appointment", ID: id}
		}
		return nil, fmt.Errorf("failed to load hold %s: %w", id, err)
	}

	now := time.Now()
	if appt.Status != models.StatusPending {
		return nil, &ConflictError{Reason: ReasonNotPending}
	}
	if appt.HoldExpired(now) {
		return nil, &ConflictError{Reason: ReasonHoldExpired}
	}

	newExpiry := appt.ExpiresAt.Add(additional)
	if hm.MaxHoldTotal > 0 && newExpiry.Sub(appt.CreatedAt) > hm.MaxHoldTotal {
		return nil, &ValidationError{Message: "extension exceeds maximum hold duration"}
	}

	err = hm.Repo.UpdateStatus(ctx, tenantID, id, models.StatusPending, models.StatusPending,
		appointmentRepo.StatusUpdate{ExpiresAt: &newExpiry, UnexpiredAt: &now})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return nil, &ConflictError{Reason: ReasonHoldExpired}
		}
		return nil, fmt.Errorf("failed to extend hold %s: %w", id, err)
	}

	appt.ExpiresAt = &newExpiry
	return appt, nil
}

// ReleaseHold expires a pending hold immediately, regardless of its timer.
// This is the explicit-cancellation path for unconfirmed holds.
func (hm *HoldManager) ReleaseHold(ctx context.Context, tenantID, id string) error {
	err := hm.Repo.UpdateStatus(ctx, tenantID, id, models.StatusPending, models.StatusExpired,
		appointmentRepo.StatusUpdate{})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return &NotFoundError{Resource: "appointment", ID: id}
		}
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return &ConflictError{Reason: ReasonNotPending}
		}
		return fmt.Errorf("failed to release hold %s: %w", id, err)
	}
	return nil
}

// SweepExpired flips every pending row whose hold has lapsed to expired
// and returns how many it swept. It is idempotent and callable from both
// the periodic worker and tests. Rows that race with a concurrent confirm
// are skipped.
func (hm *HoldManager) SweepExpired(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	now := time.Now()

	stale, err := hm.Repo.FindExpiredPending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired holds: %w", err)
	}

	swept := 0
	for _, appt := range stale {
		err := hm.Repo.UpdateStatus(ctx, appt.TenantID, appt.ID, models.StatusPending, models.StatusExpired,
			appointmentRepo.StatusUpdate{})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) || errors.Is(err, appointmentRepo.ErrNotFound) {
				continue
			}
			logger.Error("sweep: failed to expire hold",
				zap.String("tenantID", appt.TenantID), zap.String("appointmentID", appt.ID), zap.Error(err))
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.Info("sweep: expired stale holds", zap.Int("count", swept))
	}
	return swept, nil
}
