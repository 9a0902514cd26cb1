package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	router.GET("/health", healthCheckHandler(c))

	auth := middleware.AuthMiddleware(c.JWTManager)

	api := router.Group("/api")
	{
		c.AuthorHandler.Register(api.Group("/authors"), auth)
		c.BookHandler.Register(api.Group("/books"), auth)
		c.UserHandler.Register(api.Group("/users"), auth)
	}

	return router
}

// ========================================
// HEALTH CHECK
// ========================================

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if appCtx.DB == nil {
			dbStatus = "disconnected"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error"
		}

		// Redis is optional; it never degrades the overall status.
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.HealthCheck(ctx); err != nil {
			redisStatus = "error"
		}

		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		}
		if appCtx.DB != nil {
			health["pool"] = appCtx.DB.Stats()
		}

		if dbStatus != "ok" {
			health["status"] = "degraded"
			response.ErrorWithDetails(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unavailable", health)
			return
		}
		response.Success(c, http.StatusOK, health)
	}
}
