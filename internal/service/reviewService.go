package service

import (
	"context"

	repository "github.com/micdrop/openmic/internal/database/postgres"
	cache "github.com/micdrop/openmic/internal/database/redis"
	"github.com/micdrop/openmic/internal/entity"

	"github.com/sirupsen/logrus"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	venueRepo  repository.VenueRepository
	cache      *cache.CacheRepository
	policy     *AccessPolicy
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	venueRepo repository.VenueRepository,
	cacheRepo *cache.CacheRepository,
	policy *AccessPolicy,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		venueRepo:  venueRepo,
		cache:      cacheRepo,
		policy:     policy,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor *entity.User, venueID int64, req *ReviewRequest) (*entity.Review, error) {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		UserID:  actor.ID,
		VenueID: venueID,
		EventID: req.EventID,
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	// Aggregate rating changed, drop the cached venue.
	s.invalidateVenue(ctx, venueID)

	logrus.WithFields(logrus.Fields{
		"review_id": review.ID,
		"venue_id":  venueID,
		"user_id":   actor.ID,
		"rating":    review.Rating,
	}).Info("Review created")

	return review, nil
}

func (s *reviewService) GetVenueReviews(ctx context.Context, venueID int64) ([]*entity.Review, error) {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByVenue(ctx, venueID)
}

func (s *reviewService) DeleteReview(ctx context.Context, actor *entity.User, id int64) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.policy.CanDeleteReview(actor, review); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateVenue(ctx, review.VenueID)
	return nil
}

func (s *reviewService) invalidateVenue(ctx context.Context, venueID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteVenue(ctx, venueID); err != nil {
		logrus.Warnf("failed to invalidate venue %d: %v", venueID, err)
	}
}
