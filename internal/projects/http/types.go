package http

import "github.com/pulseboard/go-board-backend/internal/projects/service"

// Handler bundles the dependencies for project and task HTTP endpoints.
type Handler struct {
	projects *service.ProjectService
	tasks    *service.TaskService
}

func New(projects *service.ProjectService, tasks *service.TaskService) *Handler {
	return &Handler{projects: projects, tasks: tasks}
}

type projectReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type taskReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type subtaskReq struct {
	Title string `json:"title" binding:"required"`
}

type commentReq struct {
	Content  string `json:"content" binding:"required"`
	Author   string `json:"author" binding:"required"`
	AuthorID string `json:"author_id"`
}

// reorderReq maps each board column name to the ordered task ids it
// should contain after the move.
type reorderReq map[string][]string
