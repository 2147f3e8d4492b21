package handler

import (
	"context"
	"errors"
	"net/http"

	"vending-locator/internal/models"
	"vending-locator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LocationHandler handles the list and lookup endpoints
type LocationHandler struct {
	service LocationService
}

// LocationService interface for dependency injection
type LocationService interface {
	ListAll(context.Context) ([]models.Location, error)
	ListByState(context.Context, string) ([]models.Location, error)
	GetByID(context.Context, string) (*models.Location, error)
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// RegisterRoutes mounts the handler under api.
func (h *LocationHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("", h.ListAll)
	api.GET("/state/:state", h.ListByState)
	api.GET("/:id", h.GetByID)
}

// ListAll godoc
// @Summary List all locations
// @Tags Locations
// @Produce json
// @Success 200 {array} models.Location
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/locations [get]
func (h *LocationHandler) ListAll(c *gin.Context) {
	locations, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list locations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// ListByState godoc
// @Summary List locations in a state
// @Tags Locations
// @Produce json
// @Param state path string true "State code, matched case-insensitively"
// @Success 200 {array} models.Location
// @Failure 400 {object} map[string]string "Invalid state"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/locations/state/{state} [get]
func (h *LocationHandler) ListByState(c *gin.Context) {
	locations, err := h.service.ListByState(c.Request.Context(), c.Param("state"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
			return
		}
		log.Error().Err(err).Str("state", c.Param("state")).Msg("handler: failed to list locations by state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// GetByID godoc
// @Summary Get a location by id
// @Tags Locations
// @Produce json
// @Param id path string true "Location id, e.g. frys_001"
// @Success 200 {object} models.Location
// @Failure 404 {object} map[string]string "Location not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *gin.Context) {
	location, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		case errors.Is(err, service.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		default:
			log.Error().Err(err).Str("id", c.Param("id")).Msg("handler: failed to get location")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, location)
}
