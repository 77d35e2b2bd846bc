package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/go-redis/redis/v8"
)

// CacheRepository is a read-through cache for the hot public endpoints:
// venue details and the upcoming-events listing. Mutations invalidate;
// a cache miss or a Redis outage is never an error for the caller.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{client: client, ttl: ttl}
}

const (
	venueKeyPrefix  = "venue:"
	eventKeyPrefix  = "event:"
	upcomingListKey = "events:upcoming"
)

func (r *CacheRepository) SetVenue(ctx context.Context, venue *entity.Venue) error {
	data, err := json.Marshal(venue)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, venueKeyPrefix+fmt.Sprint(venue.ID), data, r.ttl).Err()
}

func (r *CacheRepository) GetVenue(ctx context.Context, id int64) (*entity.Venue, error) {
	data, err := r.client.Get(ctx, venueKeyPrefix+fmt.Sprint(id)).Result()
	if err != nil {
		return nil, err
	}

	var venue entity.Venue
	if err := json.Unmarshal([]byte(data), &venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *CacheRepository) DeleteVenue(ctx context.Context, id int64) error {
	return r.client.Del(ctx, venueKeyPrefix+fmt.Sprint(id)).Err()
}

func (r *CacheRepository) SetEventDetail(ctx context.Context, event *entity.EventWithRegistrations) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, eventKeyPrefix+fmt.Sprint(event.ID), data, r.ttl).Err()
}

func (r *CacheRepository) GetEventDetail(ctx context.Context, id int64) (*entity.EventWithRegistrations, error) {
	data, err := r.client.Get(ctx, eventKeyPrefix+fmt.Sprint(id)).Result()
	if err != nil {
		return nil, err
	}

	var event entity.EventWithRegistrations
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent drops both the detail entry and the shared upcoming listing,
// since any event mutation can change the listing.
func (r *CacheRepository) DeleteEvent(ctx context.Context, id int64) error {
	return r.client.Del(ctx, eventKeyPrefix+fmt.Sprint(id), upcomingListKey).Err()
}

func (r *CacheRepository) SetUpcomingEvents(ctx context.Context, events []*entity.EventWithAvailability) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, upcomingListKey, data, r.ttl).Err()
}

func (r *CacheRepository) GetUpcomingEvents(ctx context.Context) ([]*entity.EventWithAvailability, error) {
	data, err := r.client.Get(ctx, upcomingListKey).Result()
	if err != nil {
		return nil, err
	}

	var events []*entity.EventWithAvailability
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		return nil, err
	}
	return events, nil
}
