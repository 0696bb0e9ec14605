package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. Rating is derived from reviews.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	OldPrice    *float64  `json:"oldPrice,omitempty" db:"old_price"`
	Image       string    `json:"image" db:"image"`
	Gamme       string    `json:"gamme" db:"gamme"`
	Rating      float64   `json:"rating" db:"rating"`
	AuthorID    uuid.UUID `json:"authorId" db:"author_id"`
	AuthorEmail string    `json:"authorEmail,omitempty" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductUpdate holds the optional fields of a catalog edit
type ProductUpdate struct {
	Name        *string
	Category    *string
	Description *string
	Price       *float64
	OldPrice    *float64
	Image       *string
	Gamme       *string
}

// Apply copies the set fields onto product
func (u ProductUpdate) Apply(product *Product) {
	if u.Name != nil {
		product.Name = *u.Name
	}
	if u.Category != nil {
		product.Category = *u.Category
	}
	if u.Description != nil {
		product.Description = *u.Description
	}
	if u.Price != nil {
		product.Price = *u.Price
	}
	if u.OldPrice != nil {
		product.OldPrice = u.OldPrice
	}
	if u.Image != nil {
		product.Image = *u.Image
	}
	if u.Gamme != nil {
		product.Gamme = *u.Gamme
	}
}

// ProductFilter narrows a catalog listing. Empty strings mean no filter.
type ProductFilter struct {
	Category string
	Gamme    string
	MinPrice *float64
	MaxPrice *float64
}

// ProductDetail is a product together with its reviews
type ProductDetail struct {
	Product *Product  `json:"product"`
	Reviews []*Review `json:"reviews"`
}
