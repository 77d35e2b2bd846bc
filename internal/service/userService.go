package service

import (
	"context"

	repository "github.com/micdrop/openmic/internal/database/postgres"
	"github.com/micdrop/openmic/internal/entity"

	"github.com/sirupsen/logrus"
)

type userService struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
	policy    *AccessPolicy
}

func NewUserService(
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	policy *AccessPolicy,
) UserService {
	return &userService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		policy:    policy,
	}
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, actor *entity.User, req *UpdateProfileRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Photo != "" {
		user.Photo = req.Photo
	}
	if req.ComedyStyle != "" {
		user.ComedyStyle = req.ComedyStyle
	}
	if req.ExperienceLevel != "" {
		user.ExperienceLevel = req.ExperienceLevel
	}
	if req.Instagram != "" {
		user.Instagram = req.Instagram
	}
	if req.Twitter != "" {
		user.Twitter = req.Twitter
	}
	if req.Website != "" {
		user.Website = req.Website
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *entity.User, id int64) error {
	if err := s.policy.CanDeleteUser(actor); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"actor_id": actor.ID,
	}).Info("User deleted")
	return nil
}

func (s *userService) GetMyEvents(ctx context.Context, actor *entity.User) (*MyEvents, error) {
	hosting, err := s.eventRepo.GetByHost(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	performing, err := s.eventRepo.GetByPerformer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	attending, err := s.eventRepo.GetByAttendee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &MyEvents{
		Hosting:    hosting,
		Performing: performing,
		Attending:  attending,
	}, nil
}
