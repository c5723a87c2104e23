package public

import (
	"strconv"
	"strings"

	"github.com/promolane/internal/http/response"
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePromotionRequest is the purchase request body. Investment is in
// integer minor units.
type CreatePromotionRequest struct {
	ContentID    string `json:"content_id" binding:"required"`
	ContentType  string `json:"content_type" binding:"required"`
	ProviderID   string `json:"provider_id" binding:"required"`
	PackageType  string `json:"package_type" binding:"required"`
	Investment   int64  `json:"investment" binding:"required"`
	DurationDays *int   `json:"duration_days"`
	Priority     *int   `json:"priority"`
}

// CreatePromotion creates a purchase in pending_payment status.
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	record, err := h.PromotionService.CreatePromotion(service.CreatePromotionInput{
		ContentID:            req.ContentID,
		ContentType:          req.ContentType,
		ProviderID:           req.ProviderID,
		PackageType:          models.PackageType(strings.ToLower(strings.TrimSpace(req.PackageType))),
		Investment:           models.Money(req.Investment),
		DurationDaysOverride: req.DurationDays,
		PriorityOverride:     req.Priority,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "promotion create failed")
		return
	}

	response.Success(c, record)
}

// GetPromotion fetches one promotion record.
func (h *Handler) GetPromotion(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	record, err := h.PromotionService.GetPromotion(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "promotion fetch failed")
		return
	}
	response.Success(c, record)
}

// PaymentVerified is the payment subsystem's "payment verified" intake; it
// activates the promotion.
func (h *Handler) PaymentVerified(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	record, err := h.PromotionService.HandlePaymentVerified(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "promotion activate failed")
		return
	}
	response.Success(c, record)
}

// PaymentFailed is the payment subsystem's "payment failed" intake.
func (h *Handler) PaymentFailed(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	record, err := h.PromotionService.HandlePaymentFailed(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "promotion fail transition failed")
		return
	}
	response.Success(c, record)
}

// CancelPromotion cancels a pending purchase.
func (h *Handler) CancelPromotion(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}
	record, err := h.PromotionService.CancelPromotion(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "promotion cancel failed")
		return
	}
	response.Success(c, record)
}

// GetDisplay answers a surface query for the rendering layer.
func (h *Handler) GetDisplay(c *gin.Context) {
	surface := models.Surface(strings.ToLower(strings.TrimSpace(c.Query("surface"))))
	contentType := c.DefaultQuery("content_type", "all")

	limit := 10
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "limit invalid", err)
			return
		}
		limit = parsed
	}

	items, err := h.DisplayService.Select(surface, contentType, limit)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "display query failed")
		return
	}
	response.Success(c, items)
}

// GetPackages lists the promotion package catalog.
func (h *Handler) GetPackages(c *gin.Context) {
	response.Success(c, h.PackageCatalog.List())
}
