package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{entity.ErrInvalidInput, http.StatusBadRequest},
		{entity.ErrInvalidRole, http.StatusBadRequest},
		{entity.ErrInvalidRating, http.StatusBadRequest},
		{entity.ErrInvalidSlots, http.StatusBadRequest},
		{entity.ErrEventInPast, http.StatusBadRequest},
		{entity.ErrEventDatePast, http.StatusBadRequest},
		{entity.ErrEventNotOpen, http.StatusBadRequest},

		{entity.ErrInvalidCredentials, http.StatusUnauthorized},
		{entity.ErrUnauthorized, http.StatusUnauthorized},

		{entity.ErrForbidden, http.StatusForbidden},

		{entity.ErrEventNotFound, http.StatusNotFound},
		{entity.ErrVenueNotFound, http.StatusNotFound},
		{entity.ErrUserNotFound, http.StatusNotFound},
		{entity.ErrReviewNotFound, http.StatusNotFound},

		{entity.ErrSlotsFull, http.StatusConflict},
		{entity.ErrAlreadyPerforming, http.StatusConflict},
		{entity.ErrAlreadyAttending, http.StatusConflict},
		{entity.ErrNotPerforming, http.StatusConflict},
		{entity.ErrNotAttending, http.StatusConflict},
		{entity.ErrDuplicateReview, http.StatusConflict},
		{entity.ErrVenueHasEvents, http.StatusConflict},
		{entity.ErrUserAlreadyExists, http.StatusConflict},
		{entity.ErrEventTerminal, http.StatusConflict},
		{entity.ErrSlotsBelowRegistered, http.StatusConflict},

		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestStatusForWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: distance must be positive", entity.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, statusFor(wrapped))
}
