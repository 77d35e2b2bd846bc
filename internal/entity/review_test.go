package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name    string
		review  Review
		wantErr error
	}{
		{name: "valid review", review: Review{Rating: 4, Comment: "solid room"}},
		{name: "minimum rating", review: Review{Rating: 1, Comment: "rough crowd"}},
		{name: "maximum rating", review: Review{Rating: 5, Comment: "great mic"}},
		{name: "rating too low", review: Review{Rating: 0, Comment: "x"}, wantErr: ErrInvalidRating},
		{name: "rating too high", review: Review{Rating: 6, Comment: "x"}, wantErr: ErrInvalidRating},
		{name: "missing comment", review: Review{Rating: 3}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
