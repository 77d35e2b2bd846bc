package service

import (
	"context"
	"time"

	repository "github.com/micdrop/openmic/internal/database/postgres"
	cache "github.com/micdrop/openmic/internal/database/redis"
	"github.com/micdrop/openmic/internal/entity"
	"github.com/micdrop/openmic/pkg/queue"

	"github.com/sirupsen/logrus"
)

type registrationService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	cache     *cache.CacheRepository
	publisher TaskPublisher
}

func NewRegistrationService(
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	cacheRepo *cache.CacheRepository,
	publisher TaskPublisher,
) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		cache:     cacheRepo,
		publisher: publisher,
	}
}

func (s *registrationService) RegisterPerformer(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error) {
	performer, err := s.regRepo.AddPerformer(ctx, eventID, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)
	s.publish(ctx, queue.TaskTypePerformerRegistered, map[string]interface{}{
		"event_id":    eventID,
		"user_id":     actor.ID,
		"user_name":   actor.Name,
		"slot_number": performer.SlotNumber,
	})

	logrus.WithFields(logrus.Fields{
		"event_id":    eventID,
		"user_id":     actor.ID,
		"slot_number": performer.SlotNumber,
	}).Info("Performer registered")

	return s.eventRepo.GetDetail(ctx, eventID)
}

func (s *registrationService) UnregisterPerformer(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error) {
	if err := s.regRepo.RemovePerformer(ctx, eventID, actor.ID); err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)
	s.publish(ctx, queue.TaskTypePerformerWithdrawn, map[string]interface{}{
		"event_id":  eventID,
		"user_id":   actor.ID,
		"user_name": actor.Name,
	})

	return s.eventRepo.GetDetail(ctx, eventID)
}

func (s *registrationService) RegisterAttendee(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error) {
	if _, err := s.regRepo.AddAttendee(ctx, eventID, actor.ID, time.Now()); err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)
	s.publish(ctx, queue.TaskTypeAttendeeRegistered, map[string]interface{}{
		"event_id":  eventID,
		"user_id":   actor.ID,
		"user_name": actor.Name,
	})

	return s.eventRepo.GetDetail(ctx, eventID)
}

func (s *registrationService) UnregisterAttendee(ctx context.Context, actor *entity.User, eventID int64) (*entity.EventWithRegistrations, error) {
	if err := s.regRepo.RemoveAttendee(ctx, eventID, actor.ID); err != nil {
		return nil, err
	}

	s.invalidate(ctx, eventID)
	return s.eventRepo.GetDetail(ctx, eventID)
}

func (s *registrationService) invalidate(ctx context.Context, eventID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteEvent(ctx, eventID); err != nil {
		logrus.Warnf("failed to invalidate event %d: %v", eventID, err)
	}
}

func (s *registrationService) publish(ctx context.Context, taskType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTask(ctx, taskType, data); err != nil {
		logrus.Warnf("failed to publish %s task: %v", taskType, err)
	}
}
