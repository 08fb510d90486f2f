package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/service"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
	"github.com/helpora/helpora-api/pkg/response"
)

// ProviderHandler wires provider profile endpoints.
type ProviderHandler struct {
	service *service.ProviderService
}

// NewProviderHandler creates a new handler.
func NewProviderHandler(svc *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: svc}
}

// Categories godoc
// @Summary List service categories
// @Tags Providers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile/categories [get]
func (h *ProviderHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Profile godoc
// @Summary Get own provider profile
// @Tags Providers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profile/me [get]
func (h *ProviderHandler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SaveProfile godoc
// @Summary Create or replace own provider profile
// @Tags Providers
// @Accept json
// @Produce json
// @Param payload body models.SaveProviderProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/setup [post]
func (h *ProviderHandler) SaveProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SaveProviderProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	profile, err := h.service.SaveProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
