package transport

import (
	"net/http"

	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    authResponse{Token: token, User: user.Summary()},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, authResponse{Token: token, User: user.Summary()})
}

// Me returns the authenticated user's full profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ok(c, http.StatusOK, user)
}
