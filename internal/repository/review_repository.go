package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsm-commerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewSelect = `
	SELECT r.id, r.comment, r.rating, r.user_id, r.product_id,
	       COALESCE(u.username, ''), COALESCE(u.email, ''), r.created_at, r.updated_at
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id
`

func scanReview(row rowScanner) (*domain.Review, error) {
	review := &domain.Review{}
	err := row.Scan(
		&review.ID,
		&review.Comment,
		&review.Rating,
		&review.UserID,
		&review.ProductID,
		&review.Username,
		&review.UserEmail,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	return review, err
}

func (r *reviewRepository) list(ctx context.Context, where string, arg interface{}) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, reviewSelect+where+` ORDER BY r.created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// Upsert stores the review, replacing comment and rating when the user has
// already reviewed the product. The stored row is returned.
func (r *reviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (id, comment, rating, user_id, product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET comment = EXCLUDED.comment, rating = EXCLUDED.rating
		RETURNING id, comment, rating, user_id, product_id, created_at, updated_at
	`

	stored := &domain.Review{}
	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ID,
		review.Comment,
		review.Rating,
		review.UserID,
		review.ProductID,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(
		&stored.ID,
		&stored.Comment,
		&stored.Rating,
		&stored.UserID,
		&stored.ProductID,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	return stored, nil
}

// FindByID retrieves a review by ID
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// ListByProduct returns a product's reviews with their authors, newest first
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return r.list(ctx, ` WHERE r.product_id = $1`, productID)
}

// ListByUser returns the reviews written by a user, newest first
func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	return r.list(ctx, ` WHERE r.user_id = $1`, userID)
}

// Delete removes a review
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return expectAffected(result, ErrReviewNotFound)
}

// Count returns the number of reviews on the platform
func (r *reviewRepository) Count(ctx context.Context) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM reviews`)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return total, nil
}

// CountByUser returns the number of reviews a user has written
func (r *reviewRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count user reviews: %w", err)
	}
	return total, nil
}
