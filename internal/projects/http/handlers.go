package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pulseboard/go-board-backend/internal/api/http"
)

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.projects.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p, "progress": p.Progress()})
}

func (h *Handler) update(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.projects.Update(c.Request.Context(), c.Param("project_id"), req.Title, req.Description); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.projects.Delete(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}

func (h *Handler) addTask(c *gin.Context) {
	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	task, err := h.tasks.AddTask(c.Request.Context(), c.Param("project_id"), req.Title, req.Description)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "task": task})
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.tasks.GetTask(c.Request.Context(), c.Param("project_id"), c.Param("task_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": task})
}

func (h *Handler) updateTask(c *gin.Context) {
	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.tasks.UpdateTask(c.Request.Context(), c.Param("project_id"), c.Param("task_id"), req.Title, req.Description)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) removeTask(c *gin.Context) {
	modified, err := h.tasks.RemoveTask(c.Request.Context(), c.Param("project_id"), c.Param("task_id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "modified": modified})
}

func (h *Handler) reorder(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	placements, err := h.tasks.Reorder(c.Request.Context(), c.Param("project_id"), req)
	if err != nil {
		// Partial application is possible; expose what landed.
		c.JSON(httpapi.StatusFor(err), gin.H{"ok": false, "error": err.Error(), "applied": placements})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "placements": placements})
}

func (h *Handler) addSubtask(c *gin.Context) {
	var req subtaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	sub, err := h.tasks.AddSubtask(c.Request.Context(), c.Param("project_id"), c.Param("task_id"), req.Title)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "subtask": sub})
}

func (h *Handler) toggleSubtask(c *gin.Context) {
	completed, progress, err := h.tasks.ToggleSubtask(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		c.Param("subtask_id"),
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "completed": completed, "taskProgress": progress})
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	comment, err := h.tasks.AddComment(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		req.Content,
		req.Author,
		req.AuthorID,
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "comment": comment})
}

func (h *Handler) removeComment(c *gin.Context) {
	modified, err := h.tasks.RemoveComment(
		c.Request.Context(),
		c.Param("project_id"),
		c.Param("task_id"),
		c.Param("comment_id"),
	)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "modified": modified})
}
