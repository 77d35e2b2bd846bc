package service

import (
	"context"
	"sync"
	"time"

	"github.com/micdrop/openmic/internal/entity"
)

// In-memory repository fakes mirroring the Postgres implementations'
// error semantics, so the services can be exercised without a database.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return entity.ErrUserAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return entity.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type fakeVenueRepo struct {
	mu     sync.Mutex
	nextID int64
	venues map[int64]*entity.Venue

	// eventCount feeds the delete guard.
	eventCount func(venueID int64) int
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: make(map[int64]*entity.Venue)}
}

func (r *fakeVenueRepo) Create(_ context.Context, venue *entity.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	venue.ID = r.nextID
	copied := *venue
	r.venues[venue.ID] = &copied
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id int64) (*entity.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.venues[id]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVenueRepo) GetAll(_ context.Context) ([]*entity.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Venue, 0, len(r.venues))
	for _, v := range r.venues {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeVenueRepo) Update(_ context.Context, venue *entity.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[venue.ID]; !ok {
		return entity.ErrVenueNotFound
	}
	copied := *venue
	r.venues[venue.ID] = &copied
	return nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[id]; !ok {
		return entity.ErrVenueNotFound
	}
	if r.eventCount != nil && r.eventCount(id) > 0 {
		return entity.ErrVenueHasEvents
	}
	delete(r.venues, id)
	return nil
}

func (r *fakeVenueRepo) GetInRadius(_ context.Context, zipcode string, _ float64) ([]*entity.VenueWithDistance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VenueWithDistance
	for _, v := range r.venues {
		if v.Address.Zipcode == zipcode {
			out = append(out, &entity.VenueWithDistance{Venue: *v})
		}
	}
	if out == nil {
		return nil, entity.ErrVenueNotFound
	}
	return out, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*entity.Event

	// registrations come from the paired fakeRegRepo so GetDetail reflects
	// what was registered.
	reg *fakeRegRepo
}

func newFakeEventRepo(reg *fakeRegRepo) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[int64]*entity.Event), reg: reg}
	if reg != nil {
		reg.events = r
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) GetDetail(ctx context.Context, id int64) (*entity.EventWithRegistrations, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &entity.EventWithRegistrations{Event: *event}
	if r.reg != nil {
		detail.Performers, _ = r.reg.GetPerformers(ctx, id)
		detail.Attendees, _ = r.reg.GetAttendees(ctx, id)
	}
	detail.AvailableSlots = event.TotalSlots - len(detail.Performers)
	return detail, nil
}

func (r *fakeEventRepo) GetAll(_ context.Context, filter *entity.EventFilter) ([]*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.EventWithAvailability
	for _, e := range r.events {
		if filter != nil {
			if filter.VenueID != 0 && e.VenueID != filter.VenueID {
				continue
			}
			if filter.HostID != 0 && e.HostID != filter.HostID {
				continue
			}
			if filter.FreeOnly && e.Cost > 0 {
				continue
			}
			if !filter.ShowPast && e.Date.Before(time.Now()) {
				continue
			}
		}
		out = append(out, &entity.EventWithAvailability{Event: *e, AvailableSlots: e.TotalSlots})
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	if r.reg != nil {
		r.reg.mu.Lock()
		registered := len(r.reg.performers[event.ID])
		r.reg.mu.Unlock()
		if event.TotalSlots < registered {
			return entity.ErrSlotsBelowRegistered
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Cancel(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	if e.Status != entity.EventStatusScheduled {
		return entity.ErrEventTerminal
	}
	e.Status = entity.EventStatusCancelled
	return nil
}

func (r *fakeEventRepo) MarkCompleted(_ context.Context, before time.Time, limit int) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, e := range r.events {
		if len(out) >= limit {
			break
		}
		if e.Status == entity.EventStatusScheduled && e.Date.Before(before) {
			e.Status = entity.EventStatusCompleted
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetByHost(ctx context.Context, hostID int64) ([]*entity.EventWithAvailability, error) {
	return r.GetAll(ctx, &entity.EventFilter{HostID: hostID, ShowPast: true})
}

func (r *fakeEventRepo) GetByPerformer(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.EventWithAvailability
	for id, e := range r.events {
		for _, p := range r.reg.performers[id] {
			if p.UserID == userID {
				out = append(out, &entity.EventWithAvailability{Event: *e})
			}
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetByAttendee(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.EventWithAvailability
	for id, e := range r.events {
		for _, a := range r.reg.attendees[id] {
			if a.UserID == userID {
				out = append(out, &entity.EventWithAvailability{Event: *e})
			}
		}
	}
	return out, nil
}

type fakeRegRepo struct {
	mu         sync.Mutex
	events     *fakeEventRepo
	performers map[int64][]entity.Performer
	attendees  map[int64][]entity.Attendee
	slotCursor map[int64]int
}

func newFakeRegRepo() *fakeRegRepo {
	return &fakeRegRepo{
		performers: make(map[int64][]entity.Performer),
		attendees:  make(map[int64][]entity.Attendee),
		slotCursor: make(map[int64]int),
	}
}

func (r *fakeRegRepo) AddPerformer(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Performer, error) {
	event, err := r.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Date.Before(now) {
		return nil, entity.ErrEventInPast
	}
	if event.Status != entity.EventStatusScheduled {
		return nil, entity.ErrEventNotOpen
	}
	if len(r.performers[eventID]) >= event.TotalSlots {
		return nil, entity.ErrSlotsFull
	}
	for _, p := range r.performers[eventID] {
		if p.UserID == userID {
			return nil, entity.ErrAlreadyPerforming
		}
	}

	r.slotCursor[eventID]++
	performer := entity.Performer{
		EventID:    eventID,
		UserID:     userID,
		SlotNumber: r.slotCursor[eventID],
		CreatedAt:  now,
	}
	r.performers[eventID] = append(r.performers[eventID], performer)
	return &performer, nil
}

func (r *fakeRegRepo) RemovePerformer(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.performers[eventID]
	for i, p := range list {
		if p.UserID == userID {
			r.performers[eventID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotPerforming
}

func (r *fakeRegRepo) AddAttendee(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Attendee, error) {
	event, err := r.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Date.Before(now) {
		return nil, entity.ErrEventInPast
	}
	if event.Status != entity.EventStatusScheduled {
		return nil, entity.ErrEventNotOpen
	}
	for _, a := range r.attendees[eventID] {
		if a.UserID == userID {
			return nil, entity.ErrAlreadyAttending
		}
	}

	attendee := entity.Attendee{EventID: eventID, UserID: userID, CreatedAt: now}
	r.attendees[eventID] = append(r.attendees[eventID], attendee)
	return &attendee, nil
}

func (r *fakeRegRepo) RemoveAttendee(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.attendees[eventID]
	for i, a := range list {
		if a.UserID == userID {
			r.attendees[eventID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotAttending
}

func (r *fakeRegRepo) GetPerformers(_ context.Context, eventID int64) ([]entity.Performer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Performer(nil), r.performers[eventID]...), nil
}

func (r *fakeRegRepo) GetAttendees(_ context.Context, eventID int64) ([]entity.Attendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Attendee(nil), r.attendees[eventID]...), nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*entity.Review
	venues  *fakeVenueRepo
}

func newFakeReviewRepo(venues *fakeVenueRepo) *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*entity.Review), venues: venues}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.VenueID == review.VenueID {
			return entity.ErrDuplicateReview
		}
	}
	r.nextID++
	review.ID = r.nextID
	review.CreatedAt = time.Now()
	copied := *review
	r.reviews[review.ID] = &copied
	r.recalc(review.VenueID)
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id int64) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, entity.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) GetByVenue(_ context.Context, venueID int64) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if review.VenueID == venueID {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return entity.ErrReviewNotFound
	}
	delete(r.reviews, id)
	r.recalc(review.VenueID)
	return nil
}

func (r *fakeReviewRepo) recalc(venueID int64) {
	if r.venues == nil {
		return
	}
	sum, count := 0, 0
	for _, review := range r.reviews {
		if review.VenueID == venueID {
			sum += review.Rating
			count++
		}
	}
	r.venues.mu.Lock()
	defer r.venues.mu.Unlock()
	if v, ok := r.venues.venues[venueID]; ok {
		v.NumReviews = count
		if count > 0 {
			v.Rating = float64(sum) / float64(count)
		} else {
			v.Rating = 0
		}
	}
}

// recordingPublisher captures published tasks for assertions.
type recordingPublisher struct {
	mu    sync.Mutex
	tasks []publishedTask
}

type publishedTask struct {
	Type string
	Data map[string]interface{}
}

func (p *recordingPublisher) PublishTask(_ context.Context, taskType string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, publishedTask{Type: taskType, Data: data})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, t.Type)
	}
	return out
}
