package queue

import (
	"encoding/json"

	"github.com/promolane/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPromotionPaymentTimeout fails purchases whose payment never arrived.
	TaskPromotionPaymentTimeout = constants.TaskPromotionPaymentTimeout
)

// PromotionPaymentTimeoutPayload carries the record to re-check when the
// payment window elapses.
type PromotionPaymentTimeoutPayload struct {
	PromotionID string `json:"promotion_id"`
}

// NewPromotionPaymentTimeoutTask creates a payment timeout task.
func NewPromotionPaymentTimeoutTask(payload PromotionPaymentTimeoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPromotionPaymentTimeout, body), nil
}
