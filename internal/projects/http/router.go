package http

import "github.com/gin-gonic/gin"

// Register attaches project and task routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:project_id", h.get)
	rg.PATCH("/:project_id", h.update)
	rg.DELETE("/:project_id", h.delete)

	rg.PUT("/:project_id/board", h.reorder)

	rg.POST("/:project_id/tasks", h.addTask)
	rg.GET("/:project_id/tasks/:task_id", h.getTask)
	rg.PUT("/:project_id/tasks/:task_id", h.updateTask)
	rg.DELETE("/:project_id/tasks/:task_id", h.removeTask)

	rg.POST("/:project_id/tasks/:task_id/subtasks", h.addSubtask)
	rg.PUT("/:project_id/tasks/:task_id/subtasks/:subtask_id", h.toggleSubtask)

	rg.POST("/:project_id/tasks/:task_id/comments", h.addComment)
	rg.DELETE("/:project_id/tasks/:task_id/comments/:comment_id", h.removeComment)
}
