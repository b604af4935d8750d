package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"careerhelper/internal/api/middleware"
	"careerhelper/internal/jobstore"
	"careerhelper/internal/tasks"
)

// Enqueuer is the slice of asynq.Client the handler needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RecommendHandler serves career-recommendation submissions and status polls.
type RecommendHandler struct {
	enqueuer Enqueuer
	store    *jobstore.Store
	logger   *slog.Logger
}

// NewRecommendHandler constructs a RecommendHandler.
func NewRecommendHandler(enqueuer Enqueuer, store *jobstore.Store, logger *slog.Logger) *RecommendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendHandler{
		enqueuer: enqueuer,
		store:    store,
		logger:   logger,
	}
}

// Submit validates the posted profile, enqueues the pipeline job and returns
// 202 immediately. The submitting request never blocks on the pipeline.
func (h *RecommendHandler) Submit(c *gin.Context) {
	var profile map[string]any
	if err := c.ShouldBindJSON(&profile); err != nil {
		BadRequest(c, "no input data provided")
		return
	}
	if len(profile) == 0 {
		BadRequest(c, "no input data provided")
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		Internal(c, "failed to encode profile")
		return
	}

	jobID := h.store.Create()
	correlationID := middleware.GetCorrelationID(c)

	task, err := tasks.NewRecommendTask(jobID, raw, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	// MaxRetry(0): a failed pipeline run records an error outcome on its
	// only attempt, the system has no retries anywhere.
	if _, err := h.enqueuer.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		middleware.LoggerFromContext(c).Error("enqueue recommendation failed", slog.Any("error", err))
		Internal(c, "failed to enqueue recommendation")
		return
	}

	middleware.LoggerFromContext(c).Info("recommendation job accepted", slog.String("job_id", jobID))

	c.JSON(http.StatusAccepted, gin.H{
		"status":     "accepted",
		"job_id":     jobID,
		"status_url": "/api/recommend/status/" + jobID,
	})
}

// Status reads the job store. An absent record is reported as pending, which
// makes a never-issued job ID indistinguishable from one still in flight.
func (h *RecommendHandler) Status(c *gin.Context) {
	jobID := c.Param("job_id")

	outcome, ok, err := h.store.Read(jobID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("read job record failed",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
		Internal(c, "failed to read job record")
		return
	}
	if !ok {
		c.JSON(http.StatusAccepted, gin.H{"status": jobstore.StatusPending})
		return
	}

	// A recorded error outcome is still a successful status lookup.
	c.JSON(http.StatusOK, outcome)
}
