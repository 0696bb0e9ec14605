package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a product; one per (user, product) pair
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Comment   string    `json:"comment" db:"comment"`
	Rating    float64   `json:"rating" db:"rating"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Username  string    `json:"username,omitempty" db:"-"`
	UserEmail string    `json:"userEmail,omitempty" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AverageRating returns the arithmetic mean of the ratings, or 0 when empty
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total float64
	for _, r := range reviews {
		total += r.Rating
	}
	return total / float64(len(reviews))
}
