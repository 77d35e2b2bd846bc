package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/micdrop/openmic/internal/entity"

	"github.com/lib/pq"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, venue_id, event_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`,
		review.UserID,
		review.VenueID,
		review.EventID,
		review.Rating,
		review.Title,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entity.ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	if err := recalcVenueRating(ctx, tx, review.VenueID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	var review entity.Review
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, venue_id, event_id, rating, title, comment, created_at
		FROM reviews
		WHERE id = $1
	`, id).Scan(
		&review.ID,
		&review.UserID,
		&review.VenueID,
		&review.EventID,
		&review.Rating,
		&review.Title,
		&review.Comment,
		&review.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) GetByVenue(ctx context.Context, venueID int64) ([]*entity.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, venue_id, event_id, rating, title, comment, created_at
		FROM reviews
		WHERE venue_id = $1
		ORDER BY created_at DESC
	`, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.VenueID,
			&review.EventID,
			&review.Rating,
			&review.Title,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var venueID int64
	err = tx.QueryRowContext(ctx,
		`DELETE FROM reviews WHERE id = $1 RETURNING venue_id`, id,
	).Scan(&venueID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := recalcVenueRating(ctx, tx, venueID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// recalcVenueRating rewrites the venue's aggregate rating and review count
// from the surviving reviews. A venue with no reviews goes back to zero.
func recalcVenueRating(ctx context.Context, tx *sql.Tx, venueID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE venues
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE venue_id = $1), 0),
			num_reviews = (SELECT COUNT(*) FROM reviews WHERE venue_id = $1)
		WHERE id = $1
	`, venueID)
	if err != nil {
		return fmt.Errorf("failed to recalculate venue rating: %w", err)
	}
	return nil
}
