package transport

import (
	"net/http"

	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}

	okMessage(c, "user deleted")
}

// GetMyEvents returns the caller's hosting, performing and attending lists.
func (h *UserHandler) GetMyEvents(c *gin.Context) {
	events, err := h.userService.GetMyEvents(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, events)
}
