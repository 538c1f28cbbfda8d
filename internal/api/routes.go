package api

import (
	"github.com/JustJay7/legal-case-db/internal/config"
	"github.com/JustJay7/legal-case-db/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(db, logger, cfg)

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.HealthCheck)

		h.cases.register(v1.Group("/cases"))
		h.jurisdictions.register(v1.Group("/jurisdictions"))
		h.dockets.register(v1.Group("/dockets"))
		h.documents.register(v1.Group("/documents"))
		h.secondarySources.register(v1.Group("/secondary-sources"))

		taxonomies := v1.Group("/taxonomies")
		for _, t := range h.taxonomies {
			t.register(taxonomies.Group("/" + t.path))
		}
	}
}
