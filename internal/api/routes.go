package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"careerhelper/internal/jobstore"
)

// RegisterRoutes wires the /api route group.
func RegisterRoutes(
	router *gin.Engine,
	asynqClient *asynq.Client,
	store *jobstore.Store,
	redisClient *redis.Client,
	logger *slog.Logger,
) {
	recommendHandler := NewRecommendHandler(asynqClient, store, logger)
	wsHandler := NewWsHandler(redisClient, logger, nil)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/recommend", recommendHandler.Submit)
		apiGroup.GET("/recommend/status/:job_id", recommendHandler.Status)
		apiGroup.GET("/recommend/watch/:job_id", wsHandler.Watch)
	}
}
