package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) show(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.projects.Create(c.Request.Context(), strVal(req.Title), strVal(req.Description))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.projects.Update(c.Request.Context(), id, domain.ProjectChanges{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) destroy(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.projects.Destroy(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// projectID parses the :project_id segment. A non-numeric id can never
// resolve, so it renders the same 404 an unknown project does.
func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return 0, false
	}
	return id, true
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// renderError maps domain outcomes onto the API's error bodies: scoped 404
// messages, a field→messages map for validation failures, and an opaque 500
// for anything unexpected.
func renderError(c *gin.Context, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, verrs)
	default:
		log.Printf("projects: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
