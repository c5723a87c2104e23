package main

import (
	"time"

	"github.com/promolane/internal/config"
	"github.com/promolane/internal/constants"
	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	now := time.Now().UTC()
	timePtr := func(t time.Time) *time.Time { return &t }

	records := []models.PromotionRecord{
		{
			ID:           uuid.NewString(),
			ContentID:    "opp-orchard-harvest",
			ContentType:  constants.ContentTypeOpportunity,
			ProviderID:   "provider-nordic",
			PackageType:  models.PackageTypeSpotlight,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			DurationDays: 7,
			Priority:     1,
			Status:       models.PromotionStatusPendingPayment,
		},
		{
			ID:           uuid.NewString(),
			ContentID:    "job-senior-welder",
			ContentType:  constants.ContentTypeJob,
			ProviderID:   "provider-optik",
			PackageType:  models.PackageTypeFeature,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			DurationDays: 14,
			Priority:     5,
			Status:       models.PromotionStatusActive,
			StartDate:    timePtr(now.AddDate(0, 0, -3)),
			EndDate:      timePtr(now.AddDate(0, 0, 11)),
		},
		{
			ID:           uuid.NewString(),
			ContentID:    "event-makers-fair",
			ContentType:  constants.ContentTypeEvent,
			ProviderID:   "provider-ember",
			PackageType:  models.PackageTypeLaunch,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(79.00)),
			DurationDays: 30,
			Priority:     10,
			Status:       models.PromotionStatusActive,
			StartDate:    timePtr(now.AddDate(0, 0, -1)),
			EndDate:      timePtr(now.AddDate(0, 0, 29)),
		},
		{
			ID:           uuid.NewString(),
			ContentID:    "resource-grant-toolkit",
			ContentType:  constants.ContentTypeResource,
			ProviderID:   "provider-nordic",
			PackageType:  models.PackageTypeSpotlight,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(9.90)),
			DurationDays: 7,
			Priority:     1,
			Status:       models.PromotionStatusCompleted,
			StartDate:    timePtr(now.AddDate(0, 0, -10)),
			EndDate:      timePtr(now.AddDate(0, 0, -3)),
		},
		{
			ID:           uuid.NewString(),
			ContentID:    "job-line-cook",
			ContentType:  constants.ContentTypeJob,
			ProviderID:   "provider-optik",
			PackageType:  models.PackageTypeFeature,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			DurationDays: 14,
			Priority:     5,
			Status:       models.PromotionStatusFailed,
		},
		{
			ID:           uuid.NewString(),
			ContentID:    "event-winter-market",
			ContentType:  constants.ContentTypeEvent,
			ProviderID:   "provider-moss",
			PackageType:  models.PackageTypeLaunch,
			Investment:   models.NewMoneyFromDecimal(decimal.NewFromFloat(79.00)),
			DurationDays: 30,
			Priority:     10,
			Status:       models.PromotionStatusCancelled,
		},
	}

	for _, record := range records {
		var existing models.PromotionRecord
		err := models.DB.
			Where("content_id = ? AND content_type = ? AND status = ?", record.ContentID, record.ContentType, record.Status).
			First(&existing).Error
		if err == nil {
			stdLog.Printf("promotion already seeded: %s (%s)", record.ContentID, record.Status)
			continue
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("failed to seed promotion %s: %v", record.ContentID, err)
			continue
		}
		stdLog.Printf("seeded promotion: %s (%s)", record.ContentID, record.Status)
	}

	stdLog.Printf("seed finished: %d promotion records", len(records))
}
