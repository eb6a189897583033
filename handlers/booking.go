package handlers

import (
	"errors"
	"net/http"

	"agendo/services/booking"
	"agendo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the four booking engine operations over HTTP.
// All message-channel framing lives upstream of this surface.
type BookingHandler struct {
	Svc    booking.Service
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.Service, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// ListServices handles GET /api/tenants/:tenantID/services.
func (h *BookingHandler) ListServices(c *gin.Context) {
	tenantID := c.Param("tenantID")

	services, err := h.Svc.ListServices(c.Request.Context(), tenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// CheckAvailability handles GET /api/tenants/:tenantID/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	tenantID := c.Param("tenantID")
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "serviceId and date query parameters are required")
		return
	}

	slots, err := h.Svc.CheckAvailability(c.Request.Context(), tenantID, serviceID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// BookSlot handles POST /api/tenants/:tenantID/bookings.
func (h *BookingHandler) BookSlot(c *gin.Context) {
	tenantID := c.Param("tenantID")

	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Svc.BookSlot(c.Request.Context(), tenantID, req)
	if err != nil {
		// A failed confirm still created the hold; include what we have.
		if result != nil && result.AppointmentID != "" {
			h.Logger.Warn("booking held but not confirmed",
				zap.String("tenantID", tenantID), zap.String("appointmentID", result.AppointmentID), zap.Error(err))
		}
		h.respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusConflict
	}
	c.JSON(status, result)
}

// Confirm handles POST /api/tenants/:tenantID/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	tenantID := c.Param("tenantID")
	appointmentID := c.Param("id")

	result, err := h.Svc.Confirm(c.Request.Context(), tenantID, appointmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel handles DELETE /api/tenants/:tenantID/bookings/:id.
func (h *BookingHandler) Cancel(c *gin.Context) {
	tenantID := c.Param("tenantID")
	appointmentID := c.Param("id")

	if err := h.Svc.Cancel(c.Request.Context(), tenantID, appointmentID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondError maps the engine's error taxonomy onto HTTP statuses.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var validation *booking.ValidationError
	var notFound *booking.NotFoundError
	var conflict *booking.ConflictError
	var upstream *booking.UpstreamError

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validation.Message)
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not found", notFound.Error())
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"success":        false,
			"conflictReason": conflict.Reason,
			"alternatives":   conflict.Alternatives,
		})
	case errors.As(err, &upstream):
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", upstream.Error())
	default:
		h.Logger.Error("unhandled booking error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "an unexpected error occurred")
	}
}
