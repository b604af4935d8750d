package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careerhelper/internal/api/middleware"
	"careerhelper/internal/metrics"
)

const (
	// Version reported by the health endpoint.
	Version = "1.0.0"

	healthMessage = "CareerHelper API is running"
)

// NewRouter builds the Gin engine with the shared middleware chain plus the
// health and metrics endpoints.
func NewRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.Recovery(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "active",
			"message": healthMessage,
			"version": Version,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
