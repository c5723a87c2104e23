package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/provider"
	"github.com/promolane/internal/queue"
	"github.com/promolane/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPromotionPaymentTimeout, c.handlePromotionPaymentTimeout)
}

func (c *Consumer) handlePromotionPaymentTimeout(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_timeout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PromotionPaymentTimeoutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_timeout_unmarshal_failed", "error", err)
		return err
	}
	if payload.PromotionID == "" {
		logger.Debugw("worker_payment_timeout_skip_invalid_payload")
		return nil
	}
	if c.PromotionService == nil {
		logger.Warnw("worker_payment_timeout_skip_service_nil", "promotion_id", payload.PromotionID)
		return nil
	}
	cancelled, err := c.PromotionService.ExpirePendingPayment(payload.PromotionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromotionNotFound):
			logger.Debugw("worker_payment_timeout_skip_not_found", "promotion_id", payload.PromotionID)
			return nil
		case errors.Is(err, service.ErrInvalidTransition):
			logger.Debugw("worker_payment_timeout_skip_invalid_status", "promotion_id", payload.PromotionID)
			return nil
		default:
			logger.Warnw("worker_payment_timeout_failed", "promotion_id", payload.PromotionID, "error", err)
			return err
		}
	}
	if !cancelled {
		logger.Debugw("worker_payment_timeout_noop", "promotion_id", payload.PromotionID)
	}
	return nil
}
