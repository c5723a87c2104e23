package service

import (
	"context"
	"time"

	"github.com/promolane/internal/cache"
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/repository"
)

const statsCacheTTL = 45 * time.Second

// StatsService produces the investment and count aggregates used by the
// admin dashboard and alerting. Read-only; no ordering guarantees beyond
// grouping correctness.
type StatsService struct {
	repo  repository.PromotionRepository
	nowFn func() time.Time
}

// NewStatsService creates the stats aggregator.
func NewStatsService(repo repository.PromotionRepository) *StatsService {
	return &StatsService{repo: repo, nowFn: time.Now}
}

// WithNowFunc overrides the clock source, for tests.
func (s *StatsService) WithNowFunc(nowFn func() time.Time) *StatsService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// StatusBreakdown groups all records by status.
func (s *StatsService) StatusBreakdown() ([]repository.StatusBreakdownRow, error) {
	return s.repo.StatusBreakdown()
}

// ExpiringWithin counts active records whose end date falls in [now, now+window].
func (s *StatsService) ExpiringWithin(now time.Time, window time.Duration) (int64, error) {
	return s.repo.CountActiveEndingWithin(repository.ExpiryWindow{
		From: now,
		To:   now.Add(window),
	})
}

// ActiveInvestmentTotal sums investment over all active records.
func (s *StatsService) ActiveInvestmentTotal() (models.Money, error) {
	return s.repo.ActiveInvestmentTotal()
}

// StatsOverview is the combined admin monitoring payload.
type StatsOverview struct {
	Breakdown               []repository.StatusBreakdownRow `json:"breakdown"`
	ActiveInvestment        models.Money                    `json:"active_investment"`
	ActiveInvestmentDisplay string                          `json:"active_investment_display"`
	ExpiringToday           int64                           `json:"expiring_today"`
	ExpiringThisWeek        int64                           `json:"expiring_this_week"`
	GeneratedAt             time.Time                       `json:"generated_at"`
}

// Overview assembles the full monitoring payload, served from cache when a
// recent copy exists.
func (s *StatsService) Overview(ctx context.Context, forceRefresh bool) (*StatsOverview, error) {
	const cacheKey = "stats:promotion_overview"
	if !forceRefresh {
		var cached StatsOverview
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	breakdown, err := s.StatusBreakdown()
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	total, err := s.ActiveInvestmentTotal()
	if err != nil {
		return nil, err
	}
	today, err := s.ExpiringWithin(now, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	week, err := s.ExpiringWithin(now, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	overview := &StatsOverview{
		Breakdown:               breakdown,
		ActiveInvestment:        total,
		ActiveInvestmentDisplay: total.Display(),
		ExpiringToday:           today,
		ExpiringThisWeek:        week,
		GeneratedAt:             now,
	}
	_ = cache.SetJSON(ctx, cacheKey, overview, statsCacheTTL)
	return overview, nil
}
