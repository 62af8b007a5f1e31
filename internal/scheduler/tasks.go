// Package scheduler moves inbound message processing off the webhook request
// through an asynq task queue, with an in-process fallback when Redis is not
// configured.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskIntakeProcess processes one inbound WhatsApp message.
const TaskIntakeProcess = "intake:process"

// IntakeProcessPayload is the task body for TaskIntakeProcess.
type IntakeProcessPayload struct {
	Phone     string `json:"phone"`
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
}

// NewIntakeProcessTask builds the asynq task for one inbound message.
// MaxRetry is zero: intake is at-most-once, a failed message is not retried.
func NewIntakeProcessTask(phone, text, messageID string) (*asynq.Task, error) {
	payload, err := json.Marshal(IntakeProcessPayload{Phone: phone, Text: text, MessageID: messageID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntakeProcess, payload, asynq.MaxRetry(0)), nil
}
