package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/middleware"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and signs the caller in
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payload, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, payload)
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payload, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, payload)
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		fail(c, services.ErrUnauthorized)
		return
	}

	response.Success(c, user)
}
