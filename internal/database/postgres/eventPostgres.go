package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/micdrop/openmic/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `e.id, e.venue_id, e.host_id, e.name, e.description,
	e.date, e.start_time, e.end_time, e.cost, e.total_slots, e.slot_duration,
	e.status, e.created_at, e.updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }, e *entity.Event, extra ...interface{}) error {
	dest := []interface{}{
		&e.ID,
		&e.VenueID,
		&e.HostID,
		&e.Name,
		&e.Description,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.Cost,
		&e.TotalSlots,
		&e.SlotDuration,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (venue_id, host_id, name, description, date,
			start_time, end_time, cost, total_slots, slot_duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	if event.Status == "" {
		event.Status = entity.EventStatusScheduled
	}

	err := r.db.QueryRowContext(ctx, query,
		event.VenueID,
		event.HostID,
		event.Name,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Cost,
		event.TotalSlots,
		event.SlotDuration,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	var event entity.Event
	err := scanEvent(r.db.QueryRowContext(ctx, query, id), &event)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) GetDetail(ctx context.Context, id int64) (*entity.EventWithRegistrations, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &entity.EventWithRegistrations{Event: *event}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.event_id, p.user_id, u.name, p.slot_number, p.is_confirmed, p.created_at
		FROM performers p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.slot_number
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query performers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p entity.Performer
		if err := rows.Scan(&p.EventID, &p.UserID, &p.UserName, &p.SlotNumber, &p.IsConfirmed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan performer: %w", err)
		}
		detail.Performers = append(detail.Performers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attendeeRows, err := r.db.QueryContext(ctx, `
		SELECT a.event_id, a.user_id, u.name, a.created_at
		FROM attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendees: %w", err)
	}
	defer attendeeRows.Close()

	for attendeeRows.Next() {
		var a entity.Attendee
		if err := attendeeRows.Scan(&a.EventID, &a.UserID, &a.UserName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		detail.Attendees = append(detail.Attendees, a)
	}
	if err := attendeeRows.Err(); err != nil {
		return nil, err
	}

	detail.AvailableSlots = detail.TotalSlots - len(detail.Performers)
	return detail, nil
}

const eventListSelect = `
	SELECT ` + eventColumns + `,
		COALESCE(p.cnt, 0) AS performer_count,
		COALESCE(a.cnt, 0) AS attendee_count
	FROM events e
	LEFT JOIN (SELECT event_id, COUNT(*) AS cnt FROM performers GROUP BY event_id) p ON p.event_id = e.id
	LEFT JOIN (SELECT event_id, COUNT(*) AS cnt FROM attendees GROUP BY event_id) a ON a.event_id = e.id`

func (r *eventRepository) scanEventList(rows *sql.Rows) ([]*entity.EventWithAvailability, error) {
	defer rows.Close()

	var events []*entity.EventWithAvailability
	for rows.Next() {
		var e entity.EventWithAvailability
		if err := scanEvent(rows, &e.Event, &e.PerformerCount, &e.AttendeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.AvailableSlots = e.TotalSlots - e.PerformerCount
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetAll(ctx context.Context, filter *entity.EventFilter) ([]*entity.EventWithAvailability, error) {
	if filter == nil {
		filter = &entity.EventFilter{}
	}

	query := eventListSelect
	var conditions []string
	var args []interface{}

	if !filter.ShowPast {
		args = append(args, time.Now())
		conditions = append(conditions, "e.date >= $"+strconv.Itoa(len(args)))
	}
	if filter.VenueID != 0 {
		args = append(args, filter.VenueID)
		conditions = append(conditions, "e.venue_id = $"+strconv.Itoa(len(args)))
	}
	if filter.HostID != 0 {
		args = append(args, filter.HostID)
		conditions = append(conditions, "e.host_id = $"+strconv.Itoa(len(args)))
	}
	if filter.FreeOnly {
		conditions = append(conditions, "e.cost = 0")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY e.date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return r.scanEventList(rows)
}

// Update is conditional on the new total_slots still covering every
// registered performer; the row lock taken by the UPDATE serializes it
// against concurrent registrations.
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, date = $3, start_time = $4,
			end_time = $5, cost = $6, total_slots = $7, slot_duration = $8,
			updated_at = $9
		WHERE id = $10
		  AND $7 >= (SELECT COUNT(*) FROM performers WHERE event_id = $10)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Cost,
		event.TotalSlots,
		event.SlotDuration,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the event does not exist or the shrink would strand
		// registered performers.
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, event.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		if !exists {
			return entity.ErrEventNotFound
		}
		return entity.ErrSlotsBelowRegistered
	}
	return nil
}

// Cancel is a conditional update: only a scheduled event can transition to
// cancelled, so a terminal status can never be left.
func (r *eventRepository) Cancel(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET status = 'cancelled', updated_at = $1
		WHERE id = $2 AND status = 'scheduled'
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the event does not exist or it is already terminal.
		var status string
		err := r.db.QueryRowContext(ctx,
			`SELECT status FROM events WHERE id = $1`, id,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check event status: %w", err)
		}
		return entity.ErrEventTerminal
	}
	return nil
}

// MarkCompleted reconciles stale scheduled events whose date has passed.
// Safe to run repeatedly and from multiple instances.
func (r *eventRepository) MarkCompleted(ctx context.Context, before time.Time, limit int) ([]*entity.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		UPDATE events
		SET status = 'completed', updated_at = $1
		WHERE id IN (
			SELECT id FROM events
			WHERE status = 'scheduled' AND date < $2
			ORDER BY date
			LIMIT $3
		)
		RETURNING id, venue_id, host_id, name, description, date, start_time,
			end_time, cost, total_slots, slot_duration, status, created_at, updated_at
	`, time.Now(), before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to mark events completed: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var e entity.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetByHost(ctx context.Context, hostID int64) ([]*entity.EventWithAvailability, error) {
	rows, err := r.db.QueryContext(ctx,
		eventListSelect+` WHERE e.host_id = $1 ORDER BY e.date ASC`, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hosted events: %w", err)
	}
	return r.scanEventList(rows)
}

func (r *eventRepository) GetByPerformer(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error) {
	rows, err := r.db.QueryContext(ctx,
		eventListSelect+` WHERE e.id IN (SELECT event_id FROM performers WHERE user_id = $1) ORDER BY e.date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performed events: %w", err)
	}
	return r.scanEventList(rows)
}

func (r *eventRepository) GetByAttendee(ctx context.Context, userID int64) ([]*entity.EventWithAvailability, error) {
	rows, err := r.db.QueryContext(ctx,
		eventListSelect+` WHERE e.id IN (SELECT event_id FROM attendees WHERE user_id = $1) ORDER BY e.date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attended events: %w", err)
	}
	return r.scanEventList(rows)
}
