package http

import "github.com/gin-gonic/gin"

// Register attaches project and nested task routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:project_id", h.show)
	rg.PUT("/:project_id", h.update)
	rg.DELETE("/:project_id", h.destroy)

	rg.GET("/:project_id/tasks", h.listTasks)
	rg.POST("/:project_id/tasks", h.createTask)
	rg.GET("/:project_id/tasks/:id", h.showTask)
	rg.PUT("/:project_id/tasks/:id", h.updateTask)
	rg.DELETE("/:project_id/tasks/:id", h.destroyTask)
}
