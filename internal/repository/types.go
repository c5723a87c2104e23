package repository

import (
	"time"

	"github.com/promolane/internal/models"
)

// PromotionListFilter filters the admin promotion listing.
type PromotionListFilter struct {
	Page        int
	PageSize    int
	Status      models.PromotionStatus
	ContentType string
	ProviderID  string
	ContentID   string
}

// DisplayFilter selects currently displayable promotions for one surface.
// PackageTypes is the set of tiers entitled to the surface; an empty set
// yields no rows.
type DisplayFilter struct {
	PackageTypes []models.PackageType
	ContentType  string // empty or "all" means no content-type filter
	Limit        int
}

// StatusBreakdownRow is one status grouping with its count and money total.
type StatusBreakdownRow struct {
	Status          models.PromotionStatus `json:"status"`
	Count           int64                  `json:"count"`
	TotalInvestment models.Money           `json:"total_investment"`
}

// ExpiryWindow bounds an expiring-soon count query to [From, To].
type ExpiryWindow struct {
	From time.Time
	To   time.Time
}
