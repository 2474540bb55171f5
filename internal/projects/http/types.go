package http

import (
	"github.com/taskboard-io/taskboard-backend/internal/projects/service"
)

// Handler bundles the dependencies for project and task HTTP endpoints.
type Handler struct {
	projects *service.ProjectService
	tasks    *service.TaskService
}

func New(projects *service.ProjectService, tasks *service.TaskService) *Handler {
	return &Handler{projects: projects, tasks: tasks}
}

type projectReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type taskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}
