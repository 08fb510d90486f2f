package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/service"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
	"github.com/helpora/helpora-api/pkg/response"
)

// AdminHandler wires platform moderation and analytics endpoints.
type AdminHandler struct {
	service *service.AdminService
	metrics *service.MetricsService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService, metrics *service.MetricsService) *AdminHandler {
	return &AdminHandler{service: svc, metrics: metrics}
}

// Users godoc
// @Summary List non-admin accounts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.service.Users(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// SetUserStatus godoc
// @Summary Activate or suspend an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param payload body object true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{userId}/status [put]
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var payload struct {
		Status models.UserStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.SetUserStatus(c.Request.Context(), c.Param("userId"), payload.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Providers godoc
// @Summary List provider accounts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/providers [get]
func (h *AdminHandler) Providers(c *gin.Context) {
	providers, err := h.service.Providers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, providers, nil)
}

// SetProviderStatus godoc
// @Summary Moderate a provider profile
// @Tags Admin
// @Accept json
// @Produce json
// @Param providerId path string true "Provider ID"
// @Param payload body object true "Status payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/providers/{providerId}/status [put]
func (h *AdminHandler) SetProviderStatus(c *gin.Context) {
	var payload struct {
		Status models.ProviderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.SetProviderStatus(c.Request.Context(), c.Param("providerId"), payload.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Analytics godoc
// @Summary Platform analytics snapshot
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(c *gin.Context) {
	snapshot, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// SystemMetrics godoc
// @Summary Runtime metrics snapshot
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *AdminHandler) SystemMetrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
