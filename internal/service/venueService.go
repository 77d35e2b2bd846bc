package service

import (
	"context"
	"fmt"

	repository "github.com/micdrop/openmic/internal/database/postgres"
	cache "github.com/micdrop/openmic/internal/database/redis"
	"github.com/micdrop/openmic/internal/entity"

	"github.com/sirupsen/logrus"
)

type venueService struct {
	venueRepo repository.VenueRepository
	userRepo  repository.UserRepository
	cache     *cache.CacheRepository
	policy    *AccessPolicy
}

func NewVenueService(
	venueRepo repository.VenueRepository,
	userRepo repository.UserRepository,
	cacheRepo *cache.CacheRepository,
	policy *AccessPolicy,
) VenueService {
	return &venueService{
		venueRepo: venueRepo,
		userRepo:  userRepo,
		cache:     cacheRepo,
		policy:    policy,
	}
}

func (s *venueService) CreateVenue(ctx context.Context, actor *entity.User, req *VenueRequest) (*entity.Venue, error) {
	if err := s.policy.CanCreateVenue(actor); err != nil {
		return nil, err
	}

	venue := venueFromRequest(req)
	venue.OwnerID = actor.ID

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"venue_id": venue.ID,
		"owner_id": venue.OwnerID,
	}).Info("Venue created")

	return venue, nil
}

func (s *venueService) GetVenue(ctx context.Context, id int64) (*entity.Venue, error) {
	if s.cache != nil {
		if venue, err := s.cache.GetVenue(ctx, id); err == nil {
			return venue, nil
		}
	}

	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetVenue(ctx, venue); err != nil {
			logrus.Warnf("failed to cache venue %d: %v", id, err)
		}
	}
	return venue, nil
}

func (s *venueService) GetAllVenues(ctx context.Context) ([]*entity.Venue, error) {
	return s.venueRepo.GetAll(ctx)
}

// UpdateVenue is a full replace, matching the PUT semantics of the API.
func (s *venueService) UpdateVenue(ctx context.Context, actor *entity.User, id int64, req *VenueRequest) (*entity.Venue, error) {
	existing, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanManageVenue(actor, existing); err != nil {
		return nil, err
	}

	venue := venueFromRequest(req)
	venue.ID = id
	venue.OwnerID = existing.OwnerID

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.DeleteVenue(ctx, id); err != nil {
			logrus.Warnf("failed to invalidate venue %d: %v", id, err)
		}
	}

	return s.venueRepo.GetByID(ctx, id)
}

func (s *venueService) DeleteVenue(ctx context.Context, actor *entity.User, id int64) error {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.policy.CanDeleteVenue(actor, venue); err != nil {
		return err
	}

	if err := s.venueRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteVenue(ctx, id); err != nil {
			logrus.Warnf("failed to invalidate venue %d: %v", id, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"venue_id": id,
		"actor_id": actor.ID,
	}).Info("Venue deleted")
	return nil
}

func (s *venueService) GetVenuesInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.VenueWithDistance, error) {
	if zipcode == "" {
		return nil, fmt.Errorf("%w: zipcode is required", entity.ErrInvalidInput)
	}
	if distance <= 0 {
		return nil, fmt.Errorf("%w: distance must be positive", entity.ErrInvalidInput)
	}
	return s.venueRepo.GetInRadius(ctx, zipcode, distance)
}

func venueFromRequest(req *VenueRequest) *entity.Venue {
	venue := &entity.Venue{
		Name: req.Name,
		Address: entity.Address{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			Zipcode: req.Zipcode,
		},
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Description:    req.Description,
		ShowTitle:      req.ShowTitle,
		OperatingHours: req.OperatingHours,
		Price:          req.Price,
		DrinkMinimum:   req.DrinkMinimum,
		PerformerSlots: req.PerformerSlots,
		Capacity:       req.Capacity,
		Amenities: entity.Amenities{
			HasStage:       true,
			HasMicrophone:  true,
			HasSoundSystem: true,
		},
	}

	if req.PerformerSlots == 0 {
		venue.PerformerSlots = 10
	}
	if req.HasStage != nil {
		venue.Amenities.HasStage = *req.HasStage
	}
	if req.HasMicrophone != nil {
		venue.Amenities.HasMicrophone = *req.HasMicrophone
	}
	if req.HasLighting != nil {
		venue.Amenities.HasLighting = *req.HasLighting
	}
	if req.HasSoundSystem != nil {
		venue.Amenities.HasSoundSystem = *req.HasSoundSystem
	}
	return venue
}
