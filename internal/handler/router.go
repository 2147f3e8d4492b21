package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the read API: the location endpoints under /api/locations, plus health,
// banner and Swagger UI routes.
func NewRouter(locations *LocationHandler, nearby *NearbyHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/", Root)
	r.GET("/health", Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/locations")
	nearby.RegisterRoutes(api)
	locations.RegisterRoutes(api)

	return r
}

// Health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Root serves the API banner.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Vending Locator API",
		"docs":    "/swagger/index.html",
	})
}
