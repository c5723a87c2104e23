package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/promolane/internal/http/handlers/shared"
	"github.com/promolane/internal/http/response"
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListPromotions returns a filtered, paginated promotion listing.
func (h *Handler) ListPromotions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	status := models.PromotionStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	if status != "" && !status.Valid() {
		respondError(c, response.CodeBadRequest, "unknown status filter", nil)
		return
	}

	records, total, err := h.PromotionService.ListPromotions(repository.PromotionListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      status,
		ContentType: c.Query("content_type"),
		ProviderID:  strings.TrimSpace(c.Query("provider_id")),
		ContentID:   strings.TrimSpace(c.Query("content_id")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "promotion list failed", err)
		return
	}

	response.SuccessWithPage(c, records, response.NewPagination(page, pageSize, total))
}

// RunSweep triggers a synchronous expiry sweep and returns its summary.
func (h *Handler) RunSweep(c *gin.Context) {
	summary, err := h.ExpirySweeper.RunNow()
	if err != nil {
		respondError(c, response.CodeInternal, "sweep failed", err)
		return
	}
	requestLog(c).Infow("admin_sweep_triggered",
		"scanned", summary.Scanned,
		"transitioned", summary.Transitioned,
		"errors", summary.Errors,
	)
	response.Success(c, summary)
}

// LastSweep returns the most recent sweep summary.
func (h *Handler) LastSweep(c *gin.Context) {
	response.Success(c, h.ExpirySweeper.LastSummary())
}
