package models

import (
	"time"

	"github.com/promolane/internal/constants"
)

// PromotionStatus is the closed set of lifecycle states a promotion moves
// through. pending_payment, active and the three terminal states are the
// only legal values; anything else is rejected at the boundary.
type PromotionStatus string

const (
	PromotionStatusPendingPayment PromotionStatus = constants.PromotionStatusPendingPayment
	PromotionStatusActive         PromotionStatus = constants.PromotionStatusActive
	PromotionStatusCompleted      PromotionStatus = constants.PromotionStatusCompleted
	PromotionStatusCancelled      PromotionStatus = constants.PromotionStatusCancelled
	PromotionStatusFailed         PromotionStatus = constants.PromotionStatusFailed
)

// Valid reports whether the status is a known lifecycle state.
func (s PromotionStatus) Valid() bool {
	switch s {
	case PromotionStatusPendingPayment,
		PromotionStatusActive,
		PromotionStatusCompleted,
		PromotionStatusCancelled,
		PromotionStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave the status.
func (s PromotionStatus) Terminal() bool {
	switch s {
	case PromotionStatusCompleted, PromotionStatusCancelled, PromotionStatusFailed:
		return true
	}
	return false
}

// PromotionRecord is one purchased, time-boxed boost attached to a single
// content item. Investment, duration and priority are write-once at
// creation; status and the activation dates are owned by the lifecycle
// engine and the sweeper.
type PromotionRecord struct {
	ID           string          `gorm:"primarykey;size:36" json:"id"`
	ContentID    string          `gorm:"size:64;not null;index:idx_promotion_content" json:"content_id"`
	ContentType  string          `gorm:"size:32;not null;index:idx_promotion_content" json:"content_type"`
	ProviderID   string          `gorm:"size:64;not null;index" json:"provider_id"`
	PackageType  PackageType     `gorm:"size:32;not null" json:"package_type"`
	Investment   Money           `gorm:"not null" json:"investment"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Priority     int             `gorm:"not null" json:"priority"`
	Status       PromotionStatus `gorm:"size:32;not null;index" json:"status"`
	StartDate    *time.Time      `gorm:"index" json:"start_date"`
	EndDate      *time.Time      `gorm:"index" json:"end_date"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName sets the table name.
func (PromotionRecord) TableName() string {
	return "promotion_records"
}
