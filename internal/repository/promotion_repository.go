package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/promolane/internal/constants"
	"github.com/promolane/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository is the data access interface for promotion records.
type PromotionRepository interface {
	Create(record *models.PromotionRecord) error
	GetByID(id string) (*models.PromotionRecord, error)
	List(filter PromotionListFilter) ([]models.PromotionRecord, int64, error)
	ListActive() ([]models.PromotionRecord, error)
	ListDisplayable(filter DisplayFilter) ([]models.PromotionRecord, error)
	HasActiveForContent(contentID, contentType string) (bool, error)
	Activate(id string, startDate, endDate time.Time) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to models.PromotionStatus) (bool, error)
	StatusBreakdown() ([]StatusBreakdownRow, error)
	CountActiveEndingWithin(window ExpiryWindow) (int64, error)
	ActiveInvestmentTotal() (models.Money, error)
	WithTx(tx *gorm.DB) *GormPromotionRepository
}

// GormPromotionRepository is the GORM implementation.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a promotion repository.
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) *GormPromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// Create persists a new promotion record.
func (r *GormPromotionRepository) Create(record *models.PromotionRecord) error {
	return r.db.Create(record).Error
}

// GetByID fetches a promotion record, returning (nil, nil) when absent.
func (r *GormPromotionRepository) GetByID(id string) (*models.PromotionRecord, error) {
	var record models.PromotionRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List fetches a filtered, paginated promotion listing.
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.PromotionRecord, int64, error) {
	var records []models.PromotionRecord
	query := r.db.Model(&models.PromotionRecord{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if normalized := normalizeContentType(filter.ContentType); normalized != "" {
		query = query.Where("content_type = ?", normalized)
	}
	if filter.ProviderID != "" {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.ContentID != "" {
		query = query.Where("content_id = ?", filter.ContentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	if err := query.Order("created_at desc, id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListActive fetches every record currently in active status.
func (r *GormPromotionRepository) ListActive() ([]models.PromotionRecord, error) {
	var records []models.PromotionRecord
	err := r.db.
		Where("status = ?", models.PromotionStatusActive).
		Order("end_date asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListDisplayable fetches active records entitled to a surface, ordered by
// priority descending, then start date ascending, then id for determinism.
func (r *GormPromotionRepository) ListDisplayable(filter DisplayFilter) ([]models.PromotionRecord, error) {
	if len(filter.PackageTypes) == 0 {
		return []models.PromotionRecord{}, nil
	}
	query := r.db.
		Where("status = ?", models.PromotionStatusActive).
		Where("package_type IN ?", filter.PackageTypes)
	if normalized := normalizeContentType(filter.ContentType); normalized != "" {
		query = query.Where("content_type = ?", normalized)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []models.PromotionRecord
	err := query.Order("priority desc, start_date asc, id asc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// HasActiveForContent reports whether an active promotion exists for the
// given content item.
func (r *GormPromotionRepository) HasActiveForContent(contentID, contentType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PromotionRecord{}).
		Where("content_id = ? AND content_type = ? AND status = ?",
			contentID, contentType, models.PromotionStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Activate flips a pending_payment record to active and sets its activation
// window in one guarded update. Returns false when the record is missing or
// no longer pending. A partial unique index on (content_id, content_type)
// rejects a second concurrent activation for the same content with
// gorm.ErrDuplicatedKey.
func (r *GormPromotionRepository) Activate(id string, startDate, endDate time.Time) (bool, error) {
	result := r.db.Model(&models.PromotionRecord{}).
		Where("id = ? AND status = ?", id, models.PromotionStatusPendingPayment).
		Updates(map[string]interface{}{
			"status":     models.PromotionStatusActive,
			"start_date": startDate,
			"end_date":   endDate,
			"updated_at": startDate,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TransitionStatus performs a guarded status flip without touching any other
// field. Returns false when the record is missing or not in the expected
// prior status. The context bounds the statement so one slow row cannot
// stall a whole sweep.
func (r *GormPromotionRepository) TransitionStatus(ctx context.Context, id string, from, to models.PromotionStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PromotionRecord{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// StatusBreakdown groups all records by status with counts and money totals.
func (r *GormPromotionRepository) StatusBreakdown() ([]StatusBreakdownRow, error) {
	var rows []StatusBreakdownRow
	err := r.db.Model(&models.PromotionRecord{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(investment), 0) AS total_investment").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActiveEndingWithin counts active records whose end date falls inside
// the window.
func (r *GormPromotionRepository) CountActiveEndingWithin(window ExpiryWindow) (int64, error) {
	var count int64
	err := r.db.Model(&models.PromotionRecord{}).
		Where("status = ?", models.PromotionStatusActive).
		Where("end_date >= ? AND end_date <= ?", window.From, window.To).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ActiveInvestmentTotal sums investment over all active records.
func (r *GormPromotionRepository) ActiveInvestmentTotal() (models.Money, error) {
	var total int64
	err := r.db.Model(&models.PromotionRecord{}).
		Where("status = ?", models.PromotionStatusActive).
		Select("COALESCE(SUM(investment), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return models.Money(total), nil
}

func normalizeContentType(contentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if normalized == "" || normalized == constants.ContentTypeAll {
		return ""
	}
	return normalized
}
