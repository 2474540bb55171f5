package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-io/taskboard-backend/internal/projects/service"
)

func (h *Handler) listTasks(c *gin.Context) {
	pid, ok := projectID(c)
	if !ok {
		return
	}
	items, err := h.tasks.List(c.Request.Context(), pid, c.Query("status"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) showTask(c *gin.Context) {
	pid, tid, ok := taskIDs(c)
	if !ok {
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), pid, tid)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) createTask(c *gin.Context) {
	pid, ok := projectID(c)
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), pid, service.CreateTaskInput{
		Title:       strVal(req.Title),
		Description: strVal(req.Description),
		Status:      strVal(req.Status),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) updateTask(c *gin.Context) {
	pid, tid, ok := taskIDs(c)
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), pid, tid, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) destroyTask(c *gin.Context) {
	pid, tid, ok := taskIDs(c)
	if !ok {
		return
	}
	if err := h.tasks.Destroy(c.Request.Context(), pid, tid); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func taskIDs(c *gin.Context) (int64, int64, bool) {
	pid, ok := projectID(c)
	if !ok {
		return 0, 0, false
	}
	tid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return 0, 0, false
	}
	return pid, tid, true
}
