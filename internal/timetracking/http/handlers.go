package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pulseboard/go-board-backend/internal/api/http"
	"github.com/pulseboard/go-board-backend/internal/timetracking/service"
)

// Handler exposes the time tracking endpoints nested under a task.
type Handler struct {
	tracking *service.TimeTrackingService
}

func New(tracking *service.TimeTrackingService) *Handler {
	return &Handler{tracking: tracking}
}

type startReq struct {
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

func (h *Handler) start(c *gin.Context) {
	// Body is optional; both fields are.
	var req startReq
	_ = c.ShouldBindJSON(&req)

	entry, err := h.tracking.Start(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		req.Description,
		req.UserID,
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "time_entry": entry})
}

func (h *Handler) stop(c *gin.Context) {
	entry, total, err := h.tracking.Stop(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		c.Param("entry_id"),
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "time_entry": entry, "total_time_spent": total})
}

func (h *Handler) list(c *gin.Context) {
	task, err := h.tracking.List(c.Request.Context(), c.Param("project_id"), c.Param("task_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"task_id":          task.ID.Hex(),
		"task_title":       task.Title,
		"time_entries":     task.TimeEntries,
		"total_time_spent": task.TotalTimeSpent,
	})
}

func (h *Handler) remove(c *gin.Context) {
	total, err := h.tracking.Delete(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		c.Param("entry_id"),
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "total_time_spent": total})
}

// Register attaches time tracking routes under the projects group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/:project_id/tasks/:task_id/time/start", h.start)
	rg.GET("/:project_id/tasks/:task_id/time", h.list)
	rg.PUT("/:project_id/tasks/:task_id/time/:entry_id/stop", h.stop)
	rg.DELETE("/:project_id/tasks/:task_id/time/:entry_id", h.remove)
}
