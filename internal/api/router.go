// Package api assembles the gin engine, middleware and routes of the HTM
// core HTTP surface.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/htm-project/htm-core/internal/handlers"
	"github.com/htm-project/htm-core/internal/infrastructure/config"
)

// Router wires handlers into a gin engine.
type Router struct {
	config        *config.Config
	modelHandler  *handlers.ModelHandler
	healthHandler *handlers.HealthHandler
}

// NewRouter creates a router over the given handlers.
func NewRouter(cfg *config.Config, modelHandler *handlers.ModelHandler, healthHandler *handlers.HealthHandler) *Router {
	return &Router{config: cfg, modelHandler: modelHandler, healthHandler: healthHandler}
}

// SetupRoutes registers middleware and all application routes on the engine.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	if r.config.API.EnableCORS {
		engine.Use(corsMiddleware())
	}

	engine.GET("/health", r.healthHandler.Health)

	v1 := engine.Group("/api/" + r.config.API.Version)
	{
		models := v1.Group("/models")
		{
			models.POST("", r.modelHandler.CreateModel)
			models.GET("", r.modelHandler.ListModels)
			models.GET("/:id", r.modelHandler.GetModel)
			models.DELETE("/:id", r.modelHandler.DeleteModel)
			models.POST("/:id/compute", r.modelHandler.Compute)
			models.POST("/:id/reset", r.modelHandler.Reset)
			models.GET("/:id/metrics", r.modelHandler.Metrics)
		}
	}
}

// corsMiddleware allows cross-origin access to the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
