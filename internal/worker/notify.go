package worker

import "time"

// RecommendNotifyMessage is the wire format published to the per-job Redis
// channel and forwarded to websocket clients. Field names are part of the
// client protocol.
type RecommendNotifyMessage struct {
	JobID         string    `json:"job_id"`
	Status        string    `json:"status"`
	CorrelationID string    `json:"correlation_id"`
	ErrorCode     int       `json:"error_code"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
