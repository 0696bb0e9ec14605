package transport

import (
	"net/http"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostReviewRequest is a review submission by the authenticated caller
type PostReviewRequest struct {
	Comment   string    `json:"comment" validate:"required,max=2000"`
	Rating    float64   `json:"rating" validate:"required,gte=1,lte=5"`
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// PostReviewResponse lists the product's reviews after the upsert
type PostReviewResponse struct {
	Message string           `json:"message"`
	Reviews []*domain.Review `json:"reviews"`
}

type ReviewCountResponse struct {
	TotalReviews int `json:"totalReviews"`
}

type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

func (h *ReviewHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/total-review", h.CountReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/post-review", h.PostReview)
			r.Get("/{id}", h.ListReviewsByUser)
			r.Delete("/{id}", h.DeleteReview)
		})
	})
}

// PostReview creates or replaces the caller's review of a product
func (h *ReviewHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req PostReviewRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	reviews, err := h.reviewService.PostReview(r.Context(), service.ReviewInput{
		Comment:   req.Comment,
		Rating:    req.Rating,
		ProductID: req.ProductID,
		UserID:    actor.UserID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to post review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PostReviewResponse{
		Message: "review posted",
		Reviews: reviews,
	})
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(r.Context(), actor, reviewID); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "review deleted"})
}

func (h *ReviewHandler) CountReviews(w http.ResponseWriter, r *http.Request) {
	total, err := h.reviewService.CountReviews(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to count reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReviewCountResponse{TotalReviews: total})
}

// ListReviewsByUser returns the reviews written by the user in the path
func (h *ReviewHandler) ListReviewsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListReviewsByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}
