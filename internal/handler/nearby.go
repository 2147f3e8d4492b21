package handler

import (
	"context"
	"errors"
	"net/http"

	"vending-locator/internal/models"
	"vending-locator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// NearbyQuery is the query string of GET /api/locations/nearby.
type NearbyQuery struct {
	Lat      *float64 `form:"lat" validate:"required,gte=-90,lte=90"`
	Lng      *float64 `form:"lng" validate:"required,gte=-180,lte=180"`
	RadiusKm float64  `form:"radius_km" validate:"lte=1000"`
}

// NearbyHandler handles radius searches
type NearbyHandler struct {
	service  NearbyService
	validate *validator.Validate
}

// NearbyService interface for dependency injection
type NearbyService interface {
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.NearbyLocation, error)
}

// NewNearbyHandler creates a new nearby handler
func NewNearbyHandler(svc NearbyService) *NearbyHandler {
	return &NearbyHandler{service: svc, validate: validator.New()}
}

// RegisterRoutes mounts the handler under api.
func (h *NearbyHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/nearby", h.Nearby)
}

// Nearby godoc
// @Summary Find locations near a point
// @Description Returns every location inside the bounding box of the given radius around the point. Omitting radius_km, or passing a non-positive value, searches 10 km.
// @Tags Locations
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number false "Radius in kilometers" default(10)
// @Success 200 {array} models.NearbyLocation
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/locations/nearby [get]
func (h *NearbyHandler) Nearby(c *gin.Context) {
	var query NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if err := h.validate.Struct(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	locations, err := h.service.Nearby(c.Request.Context(), *query.Lat, *query.Lng, query.RadiusKm)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		log.Error().Err(err).Msg("handler: failed to find nearby locations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}
