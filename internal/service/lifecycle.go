package service

import (
	"fmt"
	"time"

	"github.com/promolane/internal/models"
)

// TransitionResult is the outcome of evaluating one record at one instant.
// At most one step is ever taken per evaluation.
type TransitionResult struct {
	Changed bool
	From    models.PromotionStatus
	To      models.PromotionStatus
}

// LifecycleEngine holds the pure promotion state-transition rules. It never
// reads the system clock and never touches storage; callers supply "now"
// and commit any resulting transition themselves, which makes evaluation
// idempotent and safe to run from any number of concurrent triggers.
type LifecycleEngine struct{}

// NewLifecycleEngine creates the lifecycle engine.
func NewLifecycleEngine() *LifecycleEngine {
	return &LifecycleEngine{}
}

// Evaluate returns the single legal time-driven transition for a record at
// the given instant, or no change. Terminal records always evaluate to no
// change. Payment-driven transitions (activate, cancel, fail) are external
// triggers and never arise from evaluation.
func (e *LifecycleEngine) Evaluate(record *models.PromotionRecord, now time.Time) (TransitionResult, error) {
	if record == nil {
		return TransitionResult{}, ErrPromotionInvalid
	}
	switch record.Status {
	case models.PromotionStatusActive:
		if record.EndDate != nil && !now.Before(*record.EndDate) {
			return TransitionResult{
				Changed: true,
				From:    models.PromotionStatusActive,
				To:      models.PromotionStatusCompleted,
			}, nil
		}
		return TransitionResult{From: record.Status, To: record.Status}, nil
	case models.PromotionStatusPendingPayment,
		models.PromotionStatusCompleted,
		models.PromotionStatusCancelled,
		models.PromotionStatusFailed:
		return TransitionResult{From: record.Status, To: record.Status}, nil
	default:
		return TransitionResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, record.Status)
	}
}

// CanTransition reports whether moving from one status to another is a
// legal edge of the state machine.
func (e *LifecycleEngine) CanTransition(from, to models.PromotionStatus) bool {
	switch from {
	case models.PromotionStatusPendingPayment:
		switch to {
		case models.PromotionStatusActive,
			models.PromotionStatusCancelled,
			models.PromotionStatusFailed:
			return true
		}
		return false
	case models.PromotionStatusActive:
		return to == models.PromotionStatusCompleted
	case models.PromotionStatusCompleted,
		models.PromotionStatusCancelled,
		models.PromotionStatusFailed:
		return false
	default:
		return false
	}
}

// ActivationWindow computes the start and end dates set when a record
// activates. EndDate is start plus the record's duration in days and is
// never recomputed afterwards.
func (e *LifecycleEngine) ActivationWindow(now time.Time, durationDays int) (time.Time, time.Time) {
	start := now
	end := start.AddDate(0, 0, durationDays)
	return start, end
}
