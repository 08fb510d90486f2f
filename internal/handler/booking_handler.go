package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/service"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
	"github.com/helpora/helpora-api/pkg/response"
)

// BookingHandler wires availability, slot and booking endpoints.
type BookingHandler struct {
	service *service.BookingService
}

// NewBookingHandler creates a new handler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Slots godoc
// @Summary List bookable slots for a provider
// @Description Hour-aligned free slots over the booking horizon
// @Tags Bookings
// @Produce json
// @Param providerId path string true "Provider ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bookings/slots/{providerId} [get]
func (h *BookingHandler) Slots(c *gin.Context) {
	providerID := c.Param("providerId")
	if _, err := uuid.Parse(providerID); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid provider id"))
		return
	}

	slots, err := h.service.Slots(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	formatted := make([]string, 0, len(slots))
	for _, slot := range slots {
		formatted = append(formatted, slot.Format(time.RFC3339))
	}
	response.JSON(c, http.StatusOK, formatted, nil, map[string]interface{}{"count": len(formatted)})
}

// Availability godoc
// @Summary Get own weekly availability
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bookings/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	windows, err := h.service.Availability(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// SetAvailability godoc
// @Summary Replace own weekly availability
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body models.SetAvailabilityRequest true "Availability payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /bookings/availability [post]
func (h *BookingHandler) SetAvailability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Create godoc
// @Summary Book a slot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body models.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings/create [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	booking, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Mine godoc
// @Summary List own bookings
// @Description Customers see their reservations, providers see bookings made against them
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bookings/my-bookings [get]
func (h *BookingHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	switch claims.Role {
	case models.RoleProvider:
		bookings, err := h.service.ProviderBookings(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, bookings, nil)
	default:
		bookings, err := h.service.CustomerBookings(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, bookings, nil)
	}
}

// UpdateStatus godoc
// @Summary Update the status of a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Param payload body models.UpdateBookingStatusRequest true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings/{bookingId}/status [put]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), claims.UserID, c.Param("bookingId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export own bookings
// @Description Download bookings as CSV or PDF
// @Tags Bookings
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /bookings/export [get]
func (h *BookingHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportProviderBookings(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
