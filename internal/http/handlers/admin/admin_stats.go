package admin

import (
	"strconv"

	"github.com/promolane/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStats returns the promotion monitoring overview: status breakdown,
// active investment total, and expiring-soon counts.
func (h *Handler) GetStats(c *gin.Context) {
	forceRefresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	overview, err := h.StatsService.Overview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "stats query failed", err)
		return
	}
	response.Success(c, overview)
}
