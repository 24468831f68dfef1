// Package scheduler runs the claim batch on a fixed interval through
// asynq backed by Redis.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskClaimsBatchRun = "claims.batch.run"

// BatchRunPayload identifies one batch run request.
type BatchRunPayload struct {
	RequestedBy string    `json:"requestedBy"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewBatchRunTask(payload BatchRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClaimsBatchRun, data), nil
}

func ParseBatchRunPayload(task *asynq.Task) (BatchRunPayload, error) {
	var payload BatchRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BatchRunPayload{}, err
	}
	return payload, nil
}
