package domain

import (
	"time"

	"github.com/google/uuid"
)

// Condition grades a secondhand item
type Condition string

const (
	ConditionNew      Condition = "new"
	ConditionVeryGood Condition = "very-good"
	ConditionGood     Condition = "good"
	ConditionFair     Condition = "fair"
)

// Occasion is a secondhand-goods listing
type Occasion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Condition   Condition `json:"condition" db:"condition"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type OccasionUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	ImageURL    *string
	Condition   *Condition
}

func (u OccasionUpdate) Apply(o *Occasion) {
	if u.Title != nil {
		o.Title = *u.Title
	}
	if u.Description != nil {
		o.Description = *u.Description
	}
	if u.Category != nil {
		o.Category = *u.Category
	}
	if u.Price != nil {
		o.Price = *u.Price
	}
	if u.ImageURL != nil {
		o.ImageURL = *u.ImageURL
	}
	if u.Condition != nil {
		o.Condition = *u.Condition
	}
}

type OccasionFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}
