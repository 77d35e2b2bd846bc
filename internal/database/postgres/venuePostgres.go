package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/micdrop/openmic/internal/entity"
)

type venueRepository struct {
	db *sql.DB
}

func NewVenueRepository(db *sql.DB) VenueRepository {
	return &venueRepository{db: db}
}

const venueColumns = `id, owner_id, name, street, city, state, zipcode,
	latitude, longitude, description, show_title, operating_hours, price,
	drink_minimum, performer_slots, capacity, has_stage, has_microphone,
	has_lighting, has_sound_system, rating, num_reviews, created_at, updated_at`

func scanVenue(row interface{ Scan(...interface{}) error }) (*entity.Venue, error) {
	var v entity.Venue
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Name,
		&v.Address.Street,
		&v.Address.City,
		&v.Address.State,
		&v.Address.Zipcode,
		&v.Latitude,
		&v.Longitude,
		&v.Description,
		&v.ShowTitle,
		&v.OperatingHours,
		&v.Price,
		&v.DrinkMinimum,
		&v.PerformerSlots,
		&v.Capacity,
		&v.Amenities.HasStage,
		&v.Amenities.HasMicrophone,
		&v.Amenities.HasLighting,
		&v.Amenities.HasSoundSystem,
		&v.Rating,
		&v.NumReviews,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (owner_id, name, street, city, state, zipcode,
			latitude, longitude, description, show_title, operating_hours,
			price, drink_minimum, performer_slots, capacity,
			has_stage, has_microphone, has_lighting, has_sound_system)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		venue.OwnerID,
		venue.Name,
		venue.Address.Street,
		venue.Address.City,
		venue.Address.State,
		venue.Address.Zipcode,
		venue.Latitude,
		venue.Longitude,
		venue.Description,
		venue.ShowTitle,
		venue.OperatingHours,
		venue.Price,
		venue.DrinkMinimum,
		venue.PerformerSlots,
		venue.Capacity,
		venue.Amenities.HasStage,
		venue.Amenities.HasMicrophone,
		venue.Amenities.HasLighting,
		venue.Amenities.HasSoundSystem,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id int64) (*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	venue, err := scanVenue(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return venue, nil
}

func (r *venueRepository) GetAll(ctx context.Context) ([]*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, street = $2, city = $3, state = $4, zipcode = $5,
			latitude = $6, longitude = $7, description = $8, show_title = $9,
			operating_hours = $10, price = $11, drink_minimum = $12,
			performer_slots = $13, capacity = $14, has_stage = $15,
			has_microphone = $16, has_lighting = $17, has_sound_system = $18,
			updated_at = $19
		WHERE id = $20
	`

	result, err := r.db.ExecContext(ctx, query,
		venue.Name,
		venue.Address.Street,
		venue.Address.City,
		venue.Address.State,
		venue.Address.Zipcode,
		venue.Latitude,
		venue.Longitude,
		venue.Description,
		venue.ShowTitle,
		venue.OperatingHours,
		venue.Price,
		venue.DrinkMinimum,
		venue.PerformerSlots,
		venue.Capacity,
		venue.Amenities.HasStage,
		venue.Amenities.HasMicrophone,
		venue.Amenities.HasLighting,
		venue.Amenities.HasSoundSystem,
		time.Now(),
		venue.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrVenueNotFound
	}
	return nil
}

func (r *venueRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Refuse to orphan events that still reference the venue.
	var eventCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE venue_id = $1`, id,
	).Scan(&eventCount)
	if err != nil {
		return fmt.Errorf("failed to check venue events: %w", err)
	}
	if eventCount > 0 {
		return entity.ErrVenueHasEvents
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrVenueNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetInRadius anchors the search at the centroid of venues sharing the given
// zipcode and ranks the rest by haversine distance (miles). No external
// geocoder is involved.
func (r *venueRepository) GetInRadius(ctx context.Context, zipcode string, distance float64) ([]*entity.VenueWithDistance, error) {
	var lat, lng sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(latitude), AVG(longitude) FROM venues WHERE zipcode = $1`,
		zipcode,
	).Scan(&lat, &lng)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve zipcode centroid: %w", err)
	}
	// AVG over zero rows is NULL: no venue anchors this zipcode.
	if !lat.Valid || !lng.Valid {
		return nil, entity.ErrVenueNotFound
	}

	// 3963 mi is the radius of the Earth.
	query := `
		SELECT ` + venueColumns + `,
			3963 * acos(
				least(1.0, cos(radians($1)) * cos(radians(latitude)) *
				cos(radians(longitude) - radians($2)) +
				sin(radians($1)) * sin(radians(latitude)))
			) AS distance
		FROM venues
		WHERE 3963 * acos(
				least(1.0, cos(radians($1)) * cos(radians(latitude)) *
				cos(radians(longitude) - radians($2)) +
				sin(radians($1)) * sin(radians(latitude)))
			) <= $3
		ORDER BY distance ASC
	`

	rows, err := r.db.QueryContext(ctx, query, lat.Float64, lng.Float64, distance)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues in radius: %w", err)
	}
	defer rows.Close()

	var venues []*entity.VenueWithDistance
	for rows.Next() {
		var v entity.VenueWithDistance
		err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.Name,
			&v.Address.Street,
			&v.Address.City,
			&v.Address.State,
			&v.Address.Zipcode,
			&v.Latitude,
			&v.Longitude,
			&v.Description,
			&v.ShowTitle,
			&v.OperatingHours,
			&v.Price,
			&v.DrinkMinimum,
			&v.PerformerSlots,
			&v.Capacity,
			&v.Amenities.HasStage,
			&v.Amenities.HasMicrophone,
			&v.Amenities.HasLighting,
			&v.Amenities.HasSoundSystem,
			&v.Rating,
			&v.NumReviews,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, &v)
	}
	return venues, rows.Err()
}
