package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/pkg/response"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List returns every user without password hashes
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, users)
}
