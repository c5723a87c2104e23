package service

import (
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/repository"
)

// DisplayService answers read-side surface queries. It never mutates
// status: a record whose end date has passed but that the sweeper has not
// yet processed is still returned until the next sweep, a staleness window
// bounded by the sweep interval.
type DisplayService struct {
	repo    repository.PromotionRepository
	catalog *PackageCatalog
}

// NewDisplayService creates the display selector.
func NewDisplayService(repo repository.PromotionRepository, catalog *PackageCatalog) *DisplayService {
	return &DisplayService{repo: repo, catalog: catalog}
}

// DisplayItem pairs an eligible record with its tier's rendering hints.
type DisplayItem struct {
	Record          models.PromotionRecord   `json:"record"`
	Visual          models.VisualEnhancement `json:"visual"`
	BoostMultiplier float64                  `json:"boost_multiplier"`
}

// Select returns the ordered set of promotions eligible for one surface.
// Ordering is priority descending, then start date ascending (older boosts
// first among equals), then id for determinism. An empty result is not an
// error; only malformed input is.
func (s *DisplayService) Select(surface models.Surface, contentTypeFilter string, limit int) ([]DisplayItem, error) {
	if !surface.Valid() {
		return nil, ErrSurfaceUnknown
	}
	if limit <= 0 {
		return nil, ErrDisplayLimitInvalid
	}

	records, err := s.repo.ListDisplayable(repository.DisplayFilter{
		PackageTypes: s.catalog.EntitledPackages(surface),
		ContentType:  contentTypeFilter,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]DisplayItem, 0, len(records))
	for _, record := range records {
		pkg, err := s.catalog.Get(record.PackageType)
		if err != nil {
			// A stored tier missing from the catalog means a catalog change
			// raced a deploy; skip the record rather than fail the surface.
			continue
		}
		items = append(items, DisplayItem{
			Record:          record,
			Visual:          pkg.Visual,
			BoostMultiplier: pkg.BoostMultiplier,
		})
	}
	return items, nil
}
