// Package worker consumes career-recommendation tasks: it runs the
// three-step pipeline, normalizes the model output, records the terminal
// outcome in the job store and publishes a status notification. Errors are
// always converted into a stored error outcome so the status endpoint stays
// answerable, they never propagate past the worker.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"careerhelper/internal/errcode"
	"careerhelper/internal/jobstore"
	"careerhelper/internal/normalize"
	"careerhelper/internal/pipeline"
	"careerhelper/internal/tasks"
)

// RecommendTaskHandler consumes recommendation pipeline tasks.
type RecommendTaskHandler struct {
	store       *jobstore.Store
	runner      *pipeline.Runner
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewRecommendTaskHandler creates the task handler. redisClient may be nil,
// in which case status notifications are skipped.
func NewRecommendTaskHandler(
	store *jobstore.Store,
	runner *pipeline.Runner,
	redisClient *redis.Client,
	logger *slog.Logger,
) *RecommendTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendTaskHandler{
		store:       store,
		runner:      runner,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask implements asynq.Handler.
func (h *RecommendTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger

	var payload tasks.RecommendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("job_id", payload.JobID),
	)
	log.Info("starting recommendation pipeline")

	var profile map[string]any
	if err := json.Unmarshal(payload.Profile, &profile); err != nil {
		return h.recordFailure(ctx, log, payload, fmt.Errorf("decode profile: %w", err))
	}

	output, err := h.runner.Run(ctx, profile)
	if err != nil {
		return h.recordFailure(ctx, log, payload, err)
	}

	result := normalize.Normalize(output)

	if err := h.store.Write(payload.JobID, jobstore.Success(result)); err != nil {
		log.Error("write job record failed", slog.Any("error", err))
		return h.recordFailure(ctx, log, payload, err)
	}

	notify := RecommendNotifyMessage{
		JobID:         payload.JobID,
		Status:        jobstore.StatusSuccess,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		Timestamp:     time.Now().UTC(),
	}
	if len(result.CareerRoadmaps) == 0 {
		notify.ErrorCode = errcode.EmptyResult
		notify.ErrorMessage = "no structured roadmaps could be extracted from the model output"
		log.Warn("pipeline finished with an empty roadmap collection")
	}
	h.publishNotify(ctx, log, notify)

	log.Info("recommendation pipeline completed",
		slog.Int("roadmaps", len(result.CareerRoadmaps)),
	)
	return nil
}

// recordFailure stores an error outcome and reports the failure to asynq.
// The stored record is what keeps the status endpoint answerable; the
// returned error only feeds metrics and the archive (tasks carry MaxRetry 0,
// so there is no re-execution).
func (h *RecommendTaskHandler) recordFailure(ctx context.Context, log *slog.Logger, payload tasks.RecommendPayload, cause error) error {
	log.Error("recommendation pipeline failed", slog.Any("error", cause))

	message := strings.TrimSpace(cause.Error())
	if err := h.store.Write(payload.JobID, jobstore.Failure(message)); err != nil {
		log.Error("write error record failed", slog.Any("error", err))
	}

	h.publishNotify(ctx, log, RecommendNotifyMessage{
		JobID:         payload.JobID,
		Status:        jobstore.StatusError,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.PipelineError,
		ErrorMessage:  message,
		Timestamp:     time.Now().UTC(),
	})

	return cause
}

func (h *RecommendTaskHandler) publishNotify(ctx context.Context, log *slog.Logger, notify RecommendNotifyMessage) {
	if h.redisClient == nil {
		return
	}
	data, err := json.Marshal(notify)
	if err != nil {
		log.Error("marshal notification payload failed", slog.Any("error", err))
		return
	}
	channel := fmt.Sprintf("job_notify:%s", notify.JobID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		log.Error("publish redis notification failed",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
	}
}
