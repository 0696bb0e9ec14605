package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an editorial article. Likes never go below zero.
type BlogPost struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Subtitle  string    `json:"subtitle" db:"subtitle"`
	Date      string    `json:"date" db:"date"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	Article   string    `json:"article" db:"article"`
	Likes     int       `json:"likes" db:"likes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type BlogPostUpdate struct {
	Title    *string
	Subtitle *string
	Date     *string
	ImageURL *string
	Article  *string
}

func (u BlogPostUpdate) Apply(p *BlogPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Subtitle != nil {
		p.Subtitle = *u.Subtitle
	}
	if u.Date != nil {
		p.Date = *u.Date
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Article != nil {
		p.Article = *u.Article
	}
}
