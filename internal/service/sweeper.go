package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/repository"
)

// SweepSummary reports one expiry pass over all active promotions. The same
// structure is returned for scheduled runs and the admin "run now" trigger.
type SweepSummary struct {
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Scanned      int       `json:"scanned"`
	Transitioned int       `json:"transitioned"`
	Errors       int       `json:"errors"`
	ErrorDetails []string  `json:"error_details,omitempty"`
}

// ExpirySweeper evaluates every active promotion against the lifecycle
// engine and commits expirations. At most one sweep runs at a time: the
// scheduled ticker and admin triggers funnel through the same mutex, so a
// second invocation blocks until the first finishes and then finds nothing
// left to transition.
type ExpirySweeper struct {
	repo          repository.PromotionRepository
	engine        *LifecycleEngine
	recordTimeout time.Duration
	nowFn         func() time.Time

	mu sync.Mutex // one sweep in flight system-wide

	lastMu sync.RWMutex
	last   *SweepSummary
}

// NewExpirySweeper creates the sweeper.
func NewExpirySweeper(repo repository.PromotionRepository, engine *LifecycleEngine, recordTimeout time.Duration) *ExpirySweeper {
	if recordTimeout <= 0 {
		recordTimeout = 5 * time.Second
	}
	return &ExpirySweeper{
		repo:          repo,
		engine:        engine,
		recordTimeout: recordTimeout,
		nowFn:         time.Now,
	}
}

// WithNowFunc overrides the clock source, for tests.
func (s *ExpirySweeper) WithNowFunc(nowFn func() time.Time) *ExpirySweeper {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// RunNow performs one synchronous sweep and returns its summary.
func (s *ExpirySweeper) RunNow() (SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := SweepSummary{StartedAt: s.nowFn()}
	records, err := s.repo.ListActive()
	if err != nil {
		return summary, fmt.Errorf("list active promotions: %w", err)
	}

	now := s.nowFn()
	for i := range records {
		record := &records[i]
		summary.Scanned++

		result, err := s.engine.Evaluate(record, now)
		if err != nil {
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails,
				fmt.Sprintf("%s: %v", record.ID, err))
			continue
		}
		if !result.Changed {
			continue
		}
		committed, err := s.commitTransition(record.ID, result)
		if err != nil {
			// One bad record must not block the rest from expiring; keep
			// going and retry it on the next scheduled run.
			summary.Errors++
			summary.ErrorDetails = append(summary.ErrorDetails,
				fmt.Sprintf("%s: %v", record.ID, err))
			continue
		}
		if committed {
			summary.Transitioned++
		}
	}

	summary.FinishedAt = s.nowFn()
	s.setLast(summary)
	logger.Infow("promotion_sweep_finished",
		"scanned", summary.Scanned,
		"transitioned", summary.Transitioned,
		"errors", summary.Errors,
	)
	return summary, nil
}

// LastSummary returns the most recent sweep summary, or nil before the
// first sweep.
func (s *ExpirySweeper) LastSummary() *SweepSummary {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return nil
	}
	copied := *s.last
	return &copied
}

func (s *ExpirySweeper) commitTransition(id string, result TransitionResult) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
	defer cancel()

	updated, err := s.repo.TransitionStatus(ctx, id, result.From, result.To)
	if err != nil {
		return false, err
	}
	if !updated {
		// Raced with another writer; the record is no longer in the expected
		// state and needs no action from this sweep.
		logger.Debugw("promotion_sweep_transition_raced",
			"promotion_id", id,
			"from", result.From,
			"to", result.To,
		)
		return false, nil
	}
	return true, nil
}

func (s *ExpirySweeper) setLast(summary SweepSummary) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = &summary
}
