package service

import (
	"context"
	"testing"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	service    ReviewService
	venueRepo  *fakeVenueRepo
	reviewRepo *fakeReviewRepo
	venue      *entity.Venue
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	venueRepo := newFakeVenueRepo()
	reviewRepo := newFakeReviewRepo(venueRepo)

	venue := &entity.Venue{OwnerID: 1, Name: "The Basement"}
	require.NoError(t, venueRepo.Create(context.Background(), venue))

	return &reviewFixture{
		service:    NewReviewService(reviewRepo, venueRepo, nil, NewAccessPolicy()),
		venueRepo:  venueRepo,
		reviewRepo: reviewRepo,
		venue:      venue,
	}
}

func TestCreateReviewUpdatesAggregate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateReview(ctx, comedian(10), f.venue.ID, &ReviewRequest{Rating: 5, Comment: "great room"})
	require.NoError(t, err)
	_, err = f.service.CreateReview(ctx, comedian(11), f.venue.ID, &ReviewRequest{Rating: 3, Comment: "decent"})
	require.NoError(t, err)

	venue, err := f.venueRepo.GetByID(ctx, f.venue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, venue.NumReviews)
	assert.InDelta(t, 4.0, venue.Rating, 0.001)
}

func TestCreateReviewDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateReview(ctx, comedian(10), f.venue.ID, &ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	_, err = f.service.CreateReview(ctx, comedian(10), f.venue.ID, &ReviewRequest{Rating: 4, Comment: "still great"})
	assert.ErrorIs(t, err, entity.ErrDuplicateReview)
}

func TestCreateReviewValidation(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateReview(ctx, comedian(10), f.venue.ID, &ReviewRequest{Rating: 6, Comment: "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidRating)

	_, err = f.service.CreateReview(ctx, comedian(10), f.venue.ID, &ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = f.service.CreateReview(ctx, comedian(10), 999, &ReviewRequest{Rating: 3, Comment: "x"})
	assert.ErrorIs(t, err, entity.ErrVenueNotFound)
}

func TestDeleteReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	author := comedian(10)
	review, err := f.service.CreateReview(ctx, author, f.venue.ID, &ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	stranger := comedian(11)
	err = f.service.DeleteReview(ctx, stranger, review.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	require.NoError(t, f.service.DeleteReview(ctx, author, review.ID))

	// Aggregate resets once the only review is gone.
	venue, err := f.venueRepo.GetByID(ctx, f.venue.ID)
	require.NoError(t, err)
	assert.Zero(t, venue.NumReviews)
	assert.Zero(t, venue.Rating)

	err = f.service.DeleteReview(ctx, author, review.ID)
	assert.ErrorIs(t, err, entity.ErrReviewNotFound)
}
