package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pulseboard/go-board-backend/internal/api/http"
	"github.com/pulseboard/go-board-backend/internal/stats/service"
)

// Handler exposes the read-only stats and report endpoints.
type Handler struct {
	stats *service.StatsService
}

func New(stats *service.StatsService) *Handler {
	return &Handler{stats: stats}
}

func (h *Handler) projectStats(c *gin.Context) {
	stats, err := h.stats.ProjectStats(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) timeReport(c *gin.Context) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	report, err := h.stats.TimeReport(c.Request.Context(), c.Param("project_id"), start, end)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// parseDate accepts either a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD or RFC 3339", raw)
}

// Register attaches stats routes under the projects group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:project_id/stats", h.projectStats)
	rg.GET("/:project_id/time-report", h.timeReport)
}
