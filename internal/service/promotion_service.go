package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promolane/internal/constants"
	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/queue"
	"github.com/promolane/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// PromotionService owns promotion purchases and the externally triggered
// lifecycle transitions (payment verified, payment failed, cancellation).
type PromotionService struct {
	repo          repository.PromotionRepository
	catalog       *PackageCatalog
	engine        *LifecycleEngine
	queueClient   *queue.Client
	paymentExpire time.Duration
	nowFn         func() time.Time
}

// NewPromotionService creates the promotion service.
func NewPromotionService(
	repo repository.PromotionRepository,
	catalog *PackageCatalog,
	engine *LifecycleEngine,
	queueClient *queue.Client,
	paymentExpire time.Duration,
) *PromotionService {
	if paymentExpire <= 0 {
		paymentExpire = 30 * time.Minute
	}
	return &PromotionService{
		repo:          repo,
		catalog:       catalog,
		engine:        engine,
		queueClient:   queueClient,
		paymentExpire: paymentExpire,
		nowFn:         time.Now,
	}
}

// WithNowFunc overrides the clock source, for tests.
func (s *PromotionService) WithNowFunc(nowFn func() time.Time) *PromotionService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// CreatePromotionInput is the purchase request.
type CreatePromotionInput struct {
	ContentID            string
	ContentType          string
	ProviderID           string
	PackageType          models.PackageType
	Investment           models.Money
	DurationDaysOverride *int
	PriorityOverride     *int
}

// CreatePromotion validates and persists a new purchase in pending_payment
// status. Dates stay unset until payment is verified.
func (s *PromotionService) CreatePromotion(input CreatePromotionInput) (*models.PromotionRecord, error) {
	contentID := strings.TrimSpace(input.ContentID)
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	providerID := strings.TrimSpace(input.ProviderID)
	if contentID == "" || providerID == "" {
		return nil, ErrPromotionInvalid
	}
	if !isKnownContentType(contentType) {
		return nil, fmt.Errorf("%w: content type %q", ErrPromotionInvalid, input.ContentType)
	}
	if input.Investment <= 0 {
		return nil, fmt.Errorf("%w: investment must be positive", ErrPromotionInvalid)
	}

	pkg, err := s.catalog.Get(input.PackageType)
	if err != nil {
		return nil, err
	}

	durationDays := pkg.DefaultDurationDays
	if input.DurationDaysOverride != nil {
		if *input.DurationDaysOverride <= 0 {
			return nil, fmt.Errorf("%w: duration override must be positive", ErrPromotionInvalid)
		}
		durationDays = *input.DurationDaysOverride
	}
	priority := pkg.Visual.Priority
	if input.PriorityOverride != nil {
		priority = *input.PriorityOverride
	}

	active, err := s.repo.HasActiveForContent(contentID, contentType)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrConflictingActivePromotion
	}

	record := &models.PromotionRecord{
		ID:           uuid.NewString(),
		ContentID:    contentID,
		ContentType:  contentType,
		ProviderID:   providerID,
		PackageType:  pkg.PackageType,
		Investment:   input.Investment,
		DurationDays: durationDays,
		Priority:     priority,
		Status:       models.PromotionStatusPendingPayment,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueuePromotionPaymentTimeout(
		queue.PromotionPaymentTimeoutPayload{PromotionID: record.ID},
		asynq.ProcessIn(s.paymentExpire),
	); err != nil {
		// The scheduled timeout is best-effort; the record is still valid.
		logger.Warnw("promotion_payment_timeout_enqueue_failed",
			"promotion_id", record.ID,
			"error", err,
		)
	}

	logger.Infow("promotion_created",
		"promotion_id", record.ID,
		"content_id", record.ContentID,
		"content_type", record.ContentType,
		"package_type", record.PackageType,
		"investment", record.Investment,
	)
	return record, nil
}

// GetPromotion fetches one record.
func (s *PromotionService) GetPromotion(id string) (*models.PromotionRecord, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPromotionNotFound
	}
	return record, nil
}

// ListPromotions fetches a filtered, paginated admin listing.
func (s *PromotionService) ListPromotions(filter repository.PromotionListFilter) ([]models.PromotionRecord, int64, error) {
	return s.repo.List(filter)
}

// HandlePaymentVerified activates a pending purchase: the one and only
// moment start and end dates are set. A concurrent activation for the same
// content loses to the partial unique index and surfaces as a conflict.
func (s *PromotionService) HandlePaymentVerified(id string) (*models.PromotionRecord, error) {
	record, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}
	if record.Status != models.PromotionStatusPendingPayment {
		return nil, fmt.Errorf("%w: cannot activate from %s", ErrInvalidTransition, record.Status)
	}

	start, end := s.engine.ActivationWindow(s.nowFn(), record.DurationDays)
	updated, err := s.repo.Activate(id, start, end)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflictingActivePromotion
		}
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: record no longer pending", ErrInvalidTransition)
	}

	logger.Infow("promotion_activated",
		"promotion_id", id,
		"start_date", start,
		"end_date", end,
	)
	return s.GetPromotion(id)
}

// HandlePaymentFailed moves a pending purchase to failed.
func (s *PromotionService) HandlePaymentFailed(id string) (*models.PromotionRecord, error) {
	return s.transitionPending(id, models.PromotionStatusFailed, "promotion_payment_failed")
}

// CancelPromotion moves a pending purchase to cancelled.
func (s *PromotionService) CancelPromotion(id string) (*models.PromotionRecord, error) {
	return s.transitionPending(id, models.PromotionStatusCancelled, "promotion_cancelled")
}

// ExpirePendingPayment cancels a purchase whose payment window has elapsed.
// Called from the queue worker; records that were paid or cancelled in the
// meantime are left untouched.
func (s *PromotionService) ExpirePendingPayment(id string) (bool, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if record == nil || record.Status != models.PromotionStatusPendingPayment {
		return false, nil
	}
	deadline := record.CreatedAt.Add(s.paymentExpire)
	if s.nowFn().Before(deadline) {
		return false, nil
	}
	updated, err := s.repo.TransitionStatus(context.Background(), id,
		models.PromotionStatusPendingPayment, models.PromotionStatusCancelled)
	if err != nil {
		return false, err
	}
	if updated {
		logger.Infow("promotion_payment_timeout_cancelled", "promotion_id", id)
	}
	return updated, nil
}

func (s *PromotionService) transitionPending(id string, to models.PromotionStatus, event string) (*models.PromotionRecord, error) {
	record, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanTransition(record.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, record.Status, to)
	}
	updated, err := s.repo.TransitionStatus(context.Background(), id, record.Status, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: record no longer %s", ErrInvalidTransition, record.Status)
	}
	logger.Infow(event, "promotion_id", id)
	return s.GetPromotion(id)
}

func isKnownContentType(contentType string) bool {
	switch contentType {
	case constants.ContentTypeOpportunity,
		constants.ContentTypeJob,
		constants.ContentTypeEvent,
		constants.ContentTypeResource:
		return true
	}
	return false
}
