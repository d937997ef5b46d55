package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskGenerateBatch = "e164.batch.generate"

type GenerateBatchPayload struct {
	JobID string `json:"jobId"`
}

func NewGenerateBatchTask(payload GenerateBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGenerateBatch, data), nil
}

func ParseGenerateBatchPayload(task *asynq.Task) (GenerateBatchPayload, error) {
	var payload GenerateBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GenerateBatchPayload{}, err
	}
	return payload, nil
}
