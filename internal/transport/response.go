package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// okList includes the element count alongside the data, matching the shape
// clients expect for collection endpoints.
func okList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Count: &count, Data: data})
}

func okMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), Response{Success: false, Message: err.Error()})
}

func failBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrInvalidEmail),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrInvalidRating),
		errors.Is(err, entity.ErrInvalidSlots),
		errors.Is(err, entity.ErrEventInPast),
		errors.Is(err, entity.ErrEventDatePast),
		errors.Is(err, entity.ErrEventNotOpen):
		return http.StatusBadRequest

	case errors.Is(err, entity.ErrInvalidCredentials),
		errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrVenueNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrReviewNotFound):
		return http.StatusNotFound

	case errors.Is(err, entity.ErrSlotsFull),
		errors.Is(err, entity.ErrAlreadyPerforming),
		errors.Is(err, entity.ErrAlreadyAttending),
		errors.Is(err, entity.ErrNotPerforming),
		errors.Is(err, entity.ErrNotAttending),
		errors.Is(err, entity.ErrDuplicateReview),
		errors.Is(err, entity.ErrVenueHasEvents),
		errors.Is(err, entity.ErrUserAlreadyExists),
		errors.Is(err, entity.ErrEventTerminal),
		errors.Is(err, entity.ErrSlotsBelowRegistered):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		failBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
