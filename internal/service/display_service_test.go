package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/promolane/internal/models"
	"github.com/promolane/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupDisplayServiceTest(t *testing.T) (*DisplayService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:display_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	catalog, err := NewDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog failed: %v", err)
	}
	repo := repository.NewPromotionRepository(db)
	return NewDisplayService(repo, catalog), db
}

func seedDisplayRecord(t *testing.T, db *gorm.DB, contentID, contentType string, pkg models.PackageType, priority int, start time.Time, status models.PromotionStatus) {
	t.Helper()
	end := start.AddDate(0, 0, 30)
	record := models.PromotionRecord{
		ID:           uuid.NewString(),
		ContentID:    contentID,
		ContentType:  contentType,
		ProviderID:   "provider-a",
		PackageType:  pkg,
		Investment:   models.Money(990),
		DurationDays: 30,
		Priority:     priority,
		Status:       status,
	}
	if status != models.PromotionStatusPendingPayment {
		record.StartDate = &start
		record.EndDate = &end
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed display record failed: %v", err)
	}
}

func TestDisplaySelectHonorsEntitlements(t *testing.T) {
	svc, db := setupDisplayServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	seedDisplayRecord(t, db, "launch-1", "opportunity", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -1), models.PromotionStatusActive)
	seedDisplayRecord(t, db, "feature-1", "opportunity", models.PackageTypeFeature, 5, now.AddDate(0, 0, -1), models.PromotionStatusActive)
	seedDisplayRecord(t, db, "spotlight-1", "opportunity", models.PackageTypeSpotlight, 1, now.AddDate(0, 0, -1), models.PromotionStatusActive)

	hero, err := svc.Select(models.SurfaceHero, "all", 10)
	if err != nil {
		t.Fatalf("hero select failed: %v", err)
	}
	if len(hero) != 1 || hero[0].Record.ContentID != "launch-1" {
		t.Fatalf("hero want [launch-1] got %+v", hero)
	}
	if hero[0].BoostMultiplier != 2.0 {
		t.Fatalf("launch boost want 2.0 got %v", hero[0].BoostMultiplier)
	}
	if !hero[0].Visual.Highlighted || hero[0].Visual.BorderStyle != "premium" {
		t.Fatalf("launch visual hints wrong: %+v", hero[0].Visual)
	}

	featured, err := svc.Select(models.SurfaceFeatured, "all", 10)
	if err != nil {
		t.Fatalf("featured select failed: %v", err)
	}
	if len(featured) != 2 {
		t.Fatalf("featured want 2 items got %d", len(featured))
	}
	if featured[0].Record.ContentID != "launch-1" || featured[1].Record.ContentID != "feature-1" {
		t.Fatalf("featured want [launch-1 feature-1] got %+v", featured)
	}

	search, err := svc.Select(models.SurfaceSpotlightSearch, "all", 10)
	if err != nil {
		t.Fatalf("spotlight_search select failed: %v", err)
	}
	if len(search) != 3 {
		t.Fatalf("spotlight_search want 3 items got %d", len(search))
	}
	wantOrder := []string{"launch-1", "feature-1", "spotlight-1"}
	for i, want := range wantOrder {
		if search[i].Record.ContentID != want {
			t.Fatalf("spotlight_search position %d want %s got %s", i, want, search[i].Record.ContentID)
		}
	}
}

func TestDisplaySelectExcludesNonActive(t *testing.T) {
	svc, db := setupDisplayServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	seedDisplayRecord(t, db, "active-1", "opportunity", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -1), models.PromotionStatusActive)
	seedDisplayRecord(t, db, "pending-1", "opportunity", models.PackageTypeLaunch, 10, now, models.PromotionStatusPendingPayment)
	seedDisplayRecord(t, db, "done-1", "opportunity", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -40), models.PromotionStatusCompleted)
	seedDisplayRecord(t, db, "cancelled-1", "opportunity", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -2), models.PromotionStatusCancelled)

	items, err := svc.Select(models.SurfaceHero, "all", 10)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(items) != 1 || items[0].Record.ContentID != "active-1" {
		t.Fatalf("want only active-1 got %+v", items)
	}
}

func TestDisplaySelectContentTypeFilterAndLimit(t *testing.T) {
	svc, db := setupDisplayServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	seedDisplayRecord(t, db, "opp-1", "opportunity", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -3), models.PromotionStatusActive)
	seedDisplayRecord(t, db, "job-1", "job", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -2), models.PromotionStatusActive)
	seedDisplayRecord(t, db, "job-2", "job", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -1), models.PromotionStatusActive)

	items, err := svc.Select(models.SurfaceHero, "job", 10)
	if err != nil {
		t.Fatalf("filtered select failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("job filter want 2 items got %d", len(items))
	}

	items, err = svc.Select(models.SurfaceHero, "all", 2)
	if err != nil {
		t.Fatalf("limited select failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("limit 2 want 2 items got %d", len(items))
	}
	// Oldest starts win among equal priorities.
	if items[0].Record.ContentID != "opp-1" || items[1].Record.ContentID != "job-1" {
		t.Fatalf("limit order want [opp-1 job-1] got %+v", items)
	}
}

func TestDisplaySelectInputValidation(t *testing.T) {
	svc, _ := setupDisplayServiceTest(t)

	if _, err := svc.Select("sidebar", "all", 10); !errors.Is(err, ErrSurfaceUnknown) {
		t.Fatalf("unknown surface want ErrSurfaceUnknown got %v", err)
	}
	if _, err := svc.Select(models.SurfaceHero, "all", 0); !errors.Is(err, ErrDisplayLimitInvalid) {
		t.Fatalf("zero limit want ErrDisplayLimitInvalid got %v", err)
	}
	if _, err := svc.Select(models.SurfaceHero, "all", -3); !errors.Is(err, ErrDisplayLimitInvalid) {
		t.Fatalf("negative limit want ErrDisplayLimitInvalid got %v", err)
	}

	// An empty surface is simply empty, not an error.
	items, err := svc.Select(models.SurfaceHero, "all", 10)
	if err != nil {
		t.Fatalf("empty select failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("empty surface want no items got %+v", items)
	}
}
