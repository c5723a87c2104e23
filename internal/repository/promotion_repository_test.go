package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/promolane/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupPromotionRepositoryTest(t *testing.T) (*GormPromotionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:promotion_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return NewPromotionRepository(db), db
}

func newTestRecord(t *testing.T, db *gorm.DB, mutate func(*models.PromotionRecord)) models.PromotionRecord {
	t.Helper()
	record := models.PromotionRecord{
		ID:           uuid.NewString(),
		ContentID:    "opp-100",
		ContentType:  "opportunity",
		ProviderID:   "provider-a",
		PackageType:  models.PackageTypeSpotlight,
		Investment:   models.Money(990),
		DurationDays: 7,
		Priority:     1,
		Status:       models.PromotionStatusPendingPayment,
	}
	if mutate != nil {
		mutate(&record)
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create promotion record failed: %v", err)
	}
	return record
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestPromotionRepositoryGetByIDMissingReturnsNil(t *testing.T) {
	repo, _ := setupPromotionRepositoryTest(t)

	record, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("get missing record failed: %v", err)
	}
	if record != nil {
		t.Fatalf("missing record should be nil, got %+v", record)
	}
}

func TestPromotionRepositoryActiveUniquePerContent(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)
	now := time.Now().UTC()

	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.Status = models.PromotionStatusActive
		r.StartDate = timePtr(now)
		r.EndDate = timePtr(now.AddDate(0, 0, 7))
	})

	duplicate := models.PromotionRecord{
		ID:           uuid.NewString(),
		ContentID:    "opp-100",
		ContentType:  "opportunity",
		ProviderID:   "provider-b",
		PackageType:  models.PackageTypeFeature,
		Investment:   models.Money(2450),
		DurationDays: 14,
		Priority:     5,
		Status:       models.PromotionStatusActive,
		StartDate:    timePtr(now),
		EndDate:      timePtr(now.AddDate(0, 0, 14)),
	}
	err := repo.Create(&duplicate)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second active promotion for same content want ErrDuplicatedKey got %v", err)
	}

	// Terminal records for the same content are not blocked by the index.
	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.Status = models.PromotionStatusCompleted
	})

	active, err := repo.HasActiveForContent("opp-100", "opportunity")
	if err != nil {
		t.Fatalf("has active failed: %v", err)
	}
	if !active {
		t.Fatalf("expected active promotion for opp-100")
	}
}

func TestPromotionRepositoryActivateGuardsPriorStatus(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	pending := newTestRecord(t, db, nil)

	updated, err := repo.Activate(pending.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !updated {
		t.Fatalf("activate should update pending record")
	}

	stored, err := repo.GetByID(pending.ID)
	if err != nil {
		t.Fatalf("get activated record failed: %v", err)
	}
	if stored.Status != models.PromotionStatusActive {
		t.Fatalf("status want active got %s", stored.Status)
	}
	if stored.StartDate == nil || stored.EndDate == nil {
		t.Fatalf("activation must set both dates")
	}
	if !stored.EndDate.Equal(stored.StartDate.AddDate(0, 0, 7)) {
		t.Fatalf("end date want start+7d got %v", stored.EndDate)
	}

	// Re-activating a record that is no longer pending changes nothing.
	updated, err = repo.Activate(pending.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("second activate failed: %v", err)
	}
	if updated {
		t.Fatalf("activate on non-pending record should not update")
	}
}

func TestPromotionRepositoryTransitionStatusGuarded(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)
	now := time.Now().UTC()

	active := newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.Status = models.PromotionStatusActive
		r.StartDate = timePtr(now.AddDate(0, 0, -8))
		r.EndDate = timePtr(now.AddDate(0, 0, -1))
	})

	updated, err := repo.TransitionStatus(context.Background(), active.ID,
		models.PromotionStatusActive, models.PromotionStatusCompleted)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !updated {
		t.Fatalf("transition from matching status should update")
	}

	updated, err = repo.TransitionStatus(context.Background(), active.ID,
		models.PromotionStatusActive, models.PromotionStatusCompleted)
	if err != nil {
		t.Fatalf("repeat transition failed: %v", err)
	}
	if updated {
		t.Fatalf("transition with stale prior status should not update")
	}

	stored, err := repo.GetByID(active.ID)
	if err != nil {
		t.Fatalf("get record failed: %v", err)
	}
	if stored.StartDate == nil || stored.EndDate == nil {
		t.Fatalf("transition must not clear activation dates")
	}
}

func TestPromotionRepositoryListDisplayableOrdering(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	for i, spec := range []struct {
		contentID string
		pkg       models.PackageType
		priority  int
		start     time.Time
	}{
		{"opp-low", models.PackageTypeSpotlight, 1, now.AddDate(0, 0, -1)},
		{"opp-high", models.PackageTypeLaunch, 10, now.AddDate(0, 0, -2)},
		{"opp-mid-old", models.PackageTypeFeature, 5, now.AddDate(0, 0, -5)},
		{"opp-mid-new", models.PackageTypeFeature, 5, now.AddDate(0, 0, -1)},
	} {
		spec := spec
		newTestRecord(t, db, func(r *models.PromotionRecord) {
			r.ContentID = spec.contentID
			r.PackageType = spec.pkg
			r.Priority = spec.priority
			r.Status = models.PromotionStatusActive
			r.StartDate = timePtr(spec.start)
			r.EndDate = timePtr(spec.start.AddDate(0, 0, 30))
			r.CreatedAt = now.Add(time.Duration(i) * time.Second)
		})
	}

	records, err := repo.ListDisplayable(DisplayFilter{
		PackageTypes: []models.PackageType{
			models.PackageTypeSpotlight,
			models.PackageTypeFeature,
			models.PackageTypeLaunch,
		},
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("list displayable failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records want 4 got %d", len(records))
	}
	wantOrder := []string{"opp-high", "opp-mid-old", "opp-mid-new", "opp-low"}
	for i, want := range wantOrder {
		if records[i].ContentID != want {
			t.Fatalf("position %d want %s got %s", i, want, records[i].ContentID)
		}
	}

	// Entitlement filtering excludes tiers not passed in.
	records, err = repo.ListDisplayable(DisplayFilter{
		PackageTypes: []models.PackageType{models.PackageTypeLaunch},
		Limit:        10,
	})
	if err != nil {
		t.Fatalf("list displayable launch-only failed: %v", err)
	}
	if len(records) != 1 || records[0].ContentID != "opp-high" {
		t.Fatalf("launch-only want [opp-high] got %+v", records)
	}
}

func TestPromotionRepositoryStatusBreakdownAndTotals(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)
	now := time.Now().UTC()

	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.ContentID = "opp-1"
		r.Investment = models.Money(1000)
		r.Status = models.PromotionStatusActive
		r.StartDate = timePtr(now)
		r.EndDate = timePtr(now.Add(12 * time.Hour))
	})
	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.ContentID = "opp-2"
		r.Investment = models.Money(2000)
		r.Status = models.PromotionStatusActive
		r.StartDate = timePtr(now)
		r.EndDate = timePtr(now.AddDate(0, 0, 5))
	})
	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.ContentID = "opp-3"
		r.Investment = models.Money(500)
		r.Status = models.PromotionStatusCompleted
	})

	rows, err := repo.StatusBreakdown()
	if err != nil {
		t.Fatalf("status breakdown failed: %v", err)
	}
	byStatus := map[models.PromotionStatus]StatusBreakdownRow{}
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	if row := byStatus[models.PromotionStatusActive]; row.Count != 2 || row.TotalInvestment != models.Money(3000) {
		t.Fatalf("active row want count=2 total=3000 got %+v", row)
	}
	if row := byStatus[models.PromotionStatusCompleted]; row.Count != 1 || row.TotalInvestment != models.Money(500) {
		t.Fatalf("completed row want count=1 total=500 got %+v", row)
	}

	total, err := repo.ActiveInvestmentTotal()
	if err != nil {
		t.Fatalf("active investment total failed: %v", err)
	}
	if total != models.Money(3000) {
		t.Fatalf("active investment want 3000 got %d", total)
	}

	expiringToday, err := repo.CountActiveEndingWithin(ExpiryWindow{From: now, To: now.Add(24 * time.Hour)})
	if err != nil {
		t.Fatalf("count expiring failed: %v", err)
	}
	if expiringToday != 1 {
		t.Fatalf("expiring today want 1 got %d", expiringToday)
	}
}

func TestPromotionRepositoryListFilters(t *testing.T) {
	repo, db := setupPromotionRepositoryTest(t)

	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.ContentID = "job-1"
		r.ContentType = "job"
		r.ProviderID = "provider-a"
	})
	newTestRecord(t, db, func(r *models.PromotionRecord) {
		r.ContentID = "event-1"
		r.ContentType = "event"
		r.ProviderID = "provider-b"
	})

	records, total, err := repo.List(PromotionListFilter{Page: 1, PageSize: 20, ContentType: "job"})
	if err != nil {
		t.Fatalf("list by content type failed: %v", err)
	}
	if total != 1 || len(records) != 1 || records[0].ContentID != "job-1" {
		t.Fatalf("job filter want [job-1] got total=%d records=%+v", total, records)
	}

	// "all" disables the content type filter.
	_, total, err = repo.List(PromotionListFilter{Page: 1, PageSize: 20, ContentType: "all"})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("all filter want total=2 got %d", total)
	}

	_, total, err = repo.List(PromotionListFilter{Page: 1, PageSize: 20, ProviderID: "provider-b"})
	if err != nil {
		t.Fatalf("list by provider failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("provider filter want total=1 got %d", total)
	}
}
