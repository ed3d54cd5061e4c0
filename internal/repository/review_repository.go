package repository

import (
	"context"
	"database/sql"
	"fmt"

	"olgish-cakes/internal/domain"

	"github.com/google/uuid"
)

// ReviewRepository reads and records customer reviews. A nil cake ID means
// the whole business: every review counts, including ones not tied to a cake.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Stats(ctx context.Context, cakeID *uuid.UUID) (domain.ReviewStats, error)
	Recent(ctx context.Context, cakeID *uuid.UUID, limit int) ([]domain.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, cake_id, author, rating, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.CakeID,
		review.Author,
		review.Rating,
		review.Body,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// Stats returns the review count and average rating. Recent is left empty.
func (r *reviewRepository) Stats(ctx context.Context, cakeID *uuid.UUID) (domain.ReviewStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8
		FROM reviews
		WHERE $1::uuid IS NULL OR cake_id = $1
	`

	var stats domain.ReviewStats
	err := r.db.QueryRowContext(ctx, query, cakeID).Scan(&stats.Count, &stats.AverageRating)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("failed to compute review stats: %w", err)
	}

	return stats, nil
}

// Recent returns up to limit reviews, newest first
func (r *reviewRepository) Recent(ctx context.Context, cakeID *uuid.UUID, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		return []domain.Review{}, nil
	}

	query := `
		SELECT id, cake_id, author, rating, body, created_at
		FROM reviews
		WHERE $1::uuid IS NULL OR cake_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, cakeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			review domain.Review
			cake   uuid.NullUUID
		)
		if err := rows.Scan(&review.ID, &cake, &review.Author, &review.Rating, &review.Body, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if cake.Valid {
			id := cake.UUID
			review.CakeID = &id
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}
