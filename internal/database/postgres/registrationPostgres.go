package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/lib/pq"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// AddPerformer runs the capacity check, the uniqueness check and the append
// as one transaction. The event row is locked first, so two performers racing
// for the last slot serialize and exactly one of them wins; the performers
// primary key backs the dedup in case the lock path is ever bypassed.
func (r *registrationRepository) AddPerformer(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Performer, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		date       time.Time
		status     entity.EventStatus
		totalSlots int
		slotCursor int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT date, status, total_slots, slot_cursor
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventID).Scan(&date, &status, &totalSlots, &slotCursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if date.Before(now) {
		return nil, entity.ErrEventInPast
	}
	if status != entity.EventStatusScheduled {
		return nil, entity.ErrEventNotOpen
	}

	var performerCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM performers WHERE event_id = $1`, eventID,
	).Scan(&performerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count performers: %w", err)
	}
	if performerCount >= totalSlots {
		return nil, entity.ErrSlotsFull
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM performers WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if exists > 0 {
		return nil, entity.ErrAlreadyPerforming
	}

	// Slot numbers come from a per-event cursor that only moves forward, so
	// a withdrawn performer's number is never handed out again.
	slotNumber := slotCursor + 1

	performer := &entity.Performer{
		EventID:    eventID,
		UserID:     userID,
		SlotNumber: slotNumber,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO performers (event_id, user_id, slot_number)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, eventID, userID, slotNumber).Scan(&performer.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, entity.ErrAlreadyPerforming
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert performer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET slot_cursor = $1 WHERE id = $2`, slotNumber, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance slot cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return performer, nil
}

// RemovePerformer deletes the entry; remaining slot numbers keep their
// original values.
func (r *registrationRepository) RemovePerformer(ctx context.Context, eventID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM performers WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove performer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrNotPerforming
	}
	return nil
}

// AddAttendee has no capacity bound; uniqueness is enforced by the attendees
// primary key.
func (r *registrationRepository) AddAttendee(ctx context.Context, eventID, userID int64, now time.Time) (*entity.Attendee, error) {
	var (
		date   time.Time
		status entity.EventStatus
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT date, status FROM events WHERE id = $1`, eventID,
	).Scan(&date, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if date.Before(now) {
		return nil, entity.ErrEventInPast
	}
	if status != entity.EventStatusScheduled {
		return nil, entity.ErrEventNotOpen
	}

	attendee := &entity.Attendee{EventID: eventID, UserID: userID}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO attendees (event_id, user_id)
		VALUES ($1, $2)
		RETURNING created_at
	`, eventID, userID).Scan(&attendee.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, entity.ErrAlreadyAttending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert attendee: %w", err)
	}
	return attendee, nil
}

func (r *registrationRepository) RemoveAttendee(ctx context.Context, eventID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM attendees WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove attendee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrNotAttending
	}
	return nil
}

func (r *registrationRepository) GetPerformers(ctx context.Context, eventID int64) ([]entity.Performer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.event_id, p.user_id, u.name, p.slot_number, p.is_confirmed, p.created_at
		FROM performers p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.slot_number
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performers: %w", err)
	}
	defer rows.Close()

	var performers []entity.Performer
	for rows.Next() {
		var p entity.Performer
		if err := rows.Scan(&p.EventID, &p.UserID, &p.UserName, &p.SlotNumber, &p.IsConfirmed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan performer: %w", err)
		}
		performers = append(performers, p)
	}
	return performers, rows.Err()
}

func (r *registrationRepository) GetAttendees(ctx context.Context, eventID int64) ([]entity.Attendee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.event_id, a.user_id, u.name, a.created_at
		FROM attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY a.created_at
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendees: %w", err)
	}
	defer rows.Close()

	var attendees []entity.Attendee
	for rows.Next() {
		var a entity.Attendee
		if err := rows.Scan(&a.EventID, &a.UserID, &a.UserName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
