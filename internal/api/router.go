package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP API with all routes registered
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/jobs", h.CreateJob)
		v1.GET("/jobs/:id", h.GetJob)
		v1.POST("/items/progress", h.ItemProgress)
		v1.GET("/bundles/:lang", h.GetBundle)
	}

	return router
}
