package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants, shared by the queue producer and consumer.
const (
	TypeRecommend = "recommend:pipeline"
)

// RecommendPayload describes one career-recommendation job: the job store
// identifier issued at submission and the raw profile exactly as posted.
type RecommendPayload struct {
	JobID         string          `json:"job_id"`
	Profile       json.RawMessage `json:"profile"`
	CorrelationID string          `json:"correlation_id"`
}

// NewRecommendTask builds the pipeline task for a submitted profile.
func NewRecommendTask(jobID string, profile json.RawMessage, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(RecommendPayload{
		JobID:         jobID,
		Profile:       profile,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecommend, payload), nil
}
