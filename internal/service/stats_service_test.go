package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/promolane/internal/models"
	"github.com/promolane/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupStatsServiceTest(t *testing.T) (*StatsService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:stats_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromotionRecord{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if err := models.MigratePromotionIndexes(db); err != nil {
		t.Fatalf("migrate promotion indexes failed: %v", err)
	}
	return NewStatsService(repository.NewPromotionRepository(db)), db
}

func seedStatsRecord(t *testing.T, db *gorm.DB, contentID string, investment models.Money, status models.PromotionStatus, end *time.Time) {
	t.Helper()
	record := models.PromotionRecord{
		ID:           uuid.NewString(),
		ContentID:    contentID,
		ContentType:  "opportunity",
		ProviderID:   "provider-a",
		PackageType:  models.PackageTypeSpotlight,
		Investment:   investment,
		DurationDays: 7,
		Priority:     1,
		Status:       status,
	}
	if end != nil {
		start := end.AddDate(0, 0, -7)
		record.StartDate = &start
		record.EndDate = end
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed stats record failed: %v", err)
	}
}

func TestStatsActiveInvestmentExcludesNonActive(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now().UTC()
	end := now.AddDate(0, 0, 3)

	seedStatsRecord(t, db, "opp-1", models.Money(1000), models.PromotionStatusActive, &end)
	seedStatsRecord(t, db, "opp-2", models.Money(500), models.PromotionStatusCompleted, nil)
	end2 := now.AddDate(0, 0, 10)
	seedStatsRecord(t, db, "opp-3", models.Money(2000), models.PromotionStatusActive, &end2)

	total, err := svc.ActiveInvestmentTotal()
	if err != nil {
		t.Fatalf("active investment total failed: %v", err)
	}
	if total != models.Money(3000) {
		t.Fatalf("active investment want 3000 got %d", total)
	}
	if total.Display() != "30.00" {
		t.Fatalf("display want 30.00 got %s", total.Display())
	}
}

func TestStatsStatusBreakdown(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now().UTC()
	end := now.AddDate(0, 0, 3)

	seedStatsRecord(t, db, "opp-1", models.Money(1000), models.PromotionStatusActive, &end)
	seedStatsRecord(t, db, "opp-2", models.Money(500), models.PromotionStatusCompleted, nil)
	seedStatsRecord(t, db, "opp-3", models.Money(300), models.PromotionStatusPendingPayment, nil)
	seedStatsRecord(t, db, "opp-4", models.Money(200), models.PromotionStatusFailed, nil)

	rows, err := svc.StatusBreakdown()
	if err != nil {
		t.Fatalf("status breakdown failed: %v", err)
	}
	byStatus := map[models.PromotionStatus]repository.StatusBreakdownRow{}
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	if len(byStatus) != 4 {
		t.Fatalf("breakdown want 4 statuses got %d", len(byStatus))
	}
	if row := byStatus[models.PromotionStatusActive]; row.Count != 1 || row.TotalInvestment != models.Money(1000) {
		t.Fatalf("active row wrong: %+v", row)
	}
	if row := byStatus[models.PromotionStatusPendingPayment]; row.Count != 1 || row.TotalInvestment != models.Money(300) {
		t.Fatalf("pending row wrong: %+v", row)
	}
}

func TestStatsExpiringWindows(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)
	svc.WithNowFunc(func() time.Time { return now })

	endToday := now.Add(6 * time.Hour)
	endThisWeek := now.AddDate(0, 0, 4)
	endLater := now.AddDate(0, 0, 20)
	seedStatsRecord(t, db, "opp-today", models.Money(1000), models.PromotionStatusActive, &endToday)
	seedStatsRecord(t, db, "opp-week", models.Money(1000), models.PromotionStatusActive, &endThisWeek)
	seedStatsRecord(t, db, "opp-later", models.Money(1000), models.PromotionStatusActive, &endLater)

	today, err := svc.ExpiringWithin(now, 24*time.Hour)
	if err != nil {
		t.Fatalf("expiring today failed: %v", err)
	}
	if today != 1 {
		t.Fatalf("expiring today want 1 got %d", today)
	}

	week, err := svc.ExpiringWithin(now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("expiring this week failed: %v", err)
	}
	if week != 2 {
		t.Fatalf("expiring this week want 2 got %d", week)
	}
}

func TestStatsOverview(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)
	svc.WithNowFunc(func() time.Time { return now })

	end := now.Add(6 * time.Hour)
	seedStatsRecord(t, db, "opp-1", models.Money(1500), models.PromotionStatusActive, &end)
	seedStatsRecord(t, db, "opp-2", models.Money(700), models.PromotionStatusCancelled, nil)

	overview, err := svc.Overview(context.Background(), true)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.ActiveInvestment != models.Money(1500) {
		t.Fatalf("active investment want 1500 got %d", overview.ActiveInvestment)
	}
	if overview.ActiveInvestmentDisplay != "15.00" {
		t.Fatalf("display want 15.00 got %s", overview.ActiveInvestmentDisplay)
	}
	if overview.ExpiringToday != 1 || overview.ExpiringThisWeek != 1 {
		t.Fatalf("expiring counts wrong: %+v", overview)
	}
	if len(overview.Breakdown) != 2 {
		t.Fatalf("breakdown want 2 statuses got %d", len(overview.Breakdown))
	}
	if !overview.GeneratedAt.Equal(now) {
		t.Fatalf("generated at want injected clock got %v", overview.GeneratedAt)
	}
}
