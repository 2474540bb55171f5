package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-io/taskboard-backend/internal/auth/domain"
	"github.com/taskboard-io/taskboard-backend/internal/auth/service"
)

// Handler serves the session (login) endpoint.
type Handler struct {
	auth *service.AuthService
}

func New(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

type sessionReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) create(c *gin.Context) {
	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("auth: login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"auth_token": session.AuthToken,
		"email":      session.Email,
	})
}

// Register attaches the sessions route to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
}
