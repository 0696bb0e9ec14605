package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound  = apperr.NotFound("review not found")
	ErrNoReviews       = apperr.NotFound("no reviews found")
	ErrReviewForbidden = apperr.Forbidden("you can only delete your own reviews")
)

// ReviewInput is a review submission
type ReviewInput struct {
	Comment   string
	Rating    float64
	ProductID uuid.UUID
	UserID    uuid.UUID
}

// ReviewService keeps product ratings in step with their reviews
type ReviewService interface {
	PostReview(ctx context.Context, input ReviewInput) ([]*domain.Review, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error
	CountReviews(ctx context.Context) (int, error)
	ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *reviewService) recomputeRating(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.RecomputeRating(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return apperr.Persistence("failed to update product rating", err)
	}
	return nil
}

// PostReview creates the user's review of a product or replaces the existing
// one, then refreshes the product rating. The product's reviews are returned.
func (s *reviewService) PostReview(ctx context.Context, input ReviewInput) ([]*domain.Review, error) {
	if strings.TrimSpace(input.Comment) == "" {
		return nil, apperr.Validation("comment is required")
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Persistence("failed to load product", err)
	}

	now := time.Now()
	_, err := s.reviewRepo.Upsert(ctx, &domain.Review{
		ID:        uuid.New(),
		Comment:   input.Comment,
		Rating:    input.Rating,
		UserID:    input.UserID,
		ProductID: input.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Persistence("failed to save review", err)
	}

	if err := s.recomputeRating(ctx, input.ProductID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, input.ProductID)
	if err != nil {
		return nil, apperr.Persistence("failed to load product reviews", err)
	}
	return reviews, nil
}

// DeleteReview removes a review written by the actor, or any review for staff
func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return apperr.Persistence("failed to load review", err)
	}

	if review.UserID != actor.UserID && !domain.IsStaff(actor.Role) {
		return ErrReviewForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return apperr.Persistence("failed to delete review", err)
	}

	return s.recomputeRating(ctx, review.ProductID)
}

func (s *reviewService) CountReviews(ctx context.Context) (int, error) {
	total, err := s.reviewRepo.Count(ctx)
	if err != nil {
		return 0, apperr.Persistence("failed to count reviews", err)
	}
	return total, nil
}

// ListReviewsByUser returns a user's reviews, newest first
func (s *reviewService) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("failed to list reviews", err)
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	return reviews, nil
}
