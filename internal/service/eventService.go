package service

import (
	"context"
	"fmt"
	"time"

	repository "github.com/micdrop/openmic/internal/database/postgres"
	cache "github.com/micdrop/openmic/internal/database/redis"
	"github.com/micdrop/openmic/internal/entity"
	"github.com/micdrop/openmic/pkg/queue"

	"github.com/sirupsen/logrus"
)

type eventService struct {
	eventRepo repository.EventRepository
	venueRepo repository.VenueRepository
	cache     *cache.CacheRepository
	policy    *AccessPolicy
	publisher TaskPublisher
}

func NewEventService(
	eventRepo repository.EventRepository,
	venueRepo repository.VenueRepository,
	cacheRepo *cache.CacheRepository,
	policy *AccessPolicy,
	publisher TaskPublisher,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		cache:     cacheRepo,
		policy:    policy,
		publisher: publisher,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, actor *entity.User, req *CreateEventRequest) (*entity.Event, error) {
	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanCreateEvent(actor, venue); err != nil {
		return nil, err
	}

	if req.Date.Before(time.Now()) {
		return nil, entity.ErrEventDatePast
	}
	if req.TotalSlots <= 0 {
		return nil, entity.ErrInvalidSlots
	}

	event := &entity.Event{
		VenueID:      req.VenueID,
		HostID:       actor.ID,
		Name:         req.Name,
		Description:  req.Description,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Cost:         req.Cost,
		TotalSlots:   req.TotalSlots,
		SlotDuration: req.SlotDuration,
		Status:       entity.EventStatusScheduled,
	}
	if event.SlotDuration == 0 {
		event.SlotDuration = 5
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.invalidate(ctx, event.ID)

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"venue_id": event.VenueID,
		"host_id":  event.HostID,
	}).Info("Event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.EventWithRegistrations, error) {
	if s.cache != nil {
		if event, err := s.cache.GetEventDetail(ctx, id); err == nil {
			event.Status = event.EffectiveStatus(time.Now())
			return event, nil
		}
	}

	event, err := s.eventRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetEventDetail(ctx, event); err != nil {
			logrus.Warnf("failed to cache event %d: %v", id, err)
		}
	}

	// Fold in the time-based completion so clients never see a stale
	// scheduled status; the stored row is reconciled by the worker.
	event.Status = event.EffectiveStatus(time.Now())
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context, filter *entity.EventFilter) ([]*entity.EventWithAvailability, error) {
	useCache := s.cache != nil && isDefaultFilter(filter)

	if useCache {
		if events, err := s.cache.GetUpcomingEvents(ctx); err == nil {
			return events, nil
		}
	}

	events, err := s.eventRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, e := range events {
		e.Status = e.EffectiveStatus(now)
	}

	if useCache {
		if err := s.cache.SetUpcomingEvents(ctx, events); err != nil {
			logrus.Warnf("failed to cache upcoming events: %v", err)
		}
	}
	return events, nil
}

func isDefaultFilter(filter *entity.EventFilter) bool {
	return filter == nil || *filter == entity.EventFilter{}
}

func (s *eventService) UpdateEvent(ctx context.Context, actor *entity.User, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanManageEvent(actor, event, venue); err != nil {
		return nil, err
	}

	if event.EffectiveStatus(time.Now()).IsTerminal() {
		return nil, entity.ErrEventTerminal
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Date != nil {
		if req.Date.Before(time.Now()) {
			return nil, entity.ErrEventDatePast
		}
		event.Date = *req.Date
	}
	if req.StartTime != "" {
		event.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		event.EndTime = req.EndTime
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return nil, fmt.Errorf("%w: cost cannot be negative", entity.ErrInvalidInput)
		}
		event.Cost = *req.Cost
	}
	if req.TotalSlots != nil {
		if *req.TotalSlots <= 0 {
			return nil, entity.ErrInvalidSlots
		}
		event.TotalSlots = *req.TotalSlots
	}
	if req.SlotDuration != nil {
		event.SlotDuration = *req.SlotDuration
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return event, nil
}

// CancelEvent is irreversible; terminal states reject it.
func (s *eventService) CancelEvent(ctx context.Context, actor *entity.User, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		return err
	}

	if err := s.policy.CanManageEvent(actor, event, venue); err != nil {
		return err
	}

	if err := s.eventRepo.Cancel(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, queue.TaskTypeEventCancelled, map[string]interface{}{
		"event_id":   id,
		"event_name": event.Name,
		"actor_id":   actor.ID,
	})

	logrus.WithFields(logrus.Fields{
		"event_id": id,
		"actor_id": actor.ID,
	}).Info("Event cancelled")
	return nil
}

func (s *eventService) GetEventPerformers(ctx context.Context, eventID int64) ([]entity.Performer, error) {
	event, err := s.eventRepo.GetDetail(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event.Performers, nil
}

func (s *eventService) GetEventAttendees(ctx context.Context, eventID int64) ([]entity.Attendee, error) {
	event, err := s.eventRepo.GetDetail(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event.Attendees, nil
}

func (s *eventService) ReconcileCompleted(ctx context.Context, before time.Time, limit int) (int, error) {
	events, err := s.eventRepo.MarkCompleted(ctx, before, limit)
	if err != nil {
		return 0, err
	}

	for _, event := range events {
		s.invalidate(ctx, event.ID)
		s.publish(ctx, queue.TaskTypeEventCompleted, map[string]interface{}{
			"event_id":   event.ID,
			"event_name": event.Name,
		})
	}
	return len(events), nil
}

func (s *eventService) invalidate(ctx context.Context, eventID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteEvent(ctx, eventID); err != nil {
		logrus.Warnf("failed to invalidate event %d: %v", eventID, err)
	}
}

func (s *eventService) publish(ctx context.Context, taskType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTask(ctx, taskType, data); err != nil {
		logrus.Warnf("failed to publish %s task: %v", taskType, err)
	}
}
