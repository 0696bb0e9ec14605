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
	ErrBlogPostNotFound = errors.New("blog post not found")
)

// BlogRepository defines the interface for blog post data access
type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
	List(ctx context.Context, page domain.Page) ([]*domain.BlogPost, int, error)
	AddLikes(ctx context.Context, id uuid.UUID, delta int) (*domain.BlogPost, error)
}

type blogRepository struct {
	db *sql.DB
}

// NewBlogRepository creates a new instance of BlogRepository
func NewBlogRepository(db *sql.DB) BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `id, title, subtitle, date, image_url, article, likes, created_at, updated_at`

func scanBlogPost(row rowScanner) (*domain.BlogPost, error) {
	post := &domain.BlogPost{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Subtitle,
		&post.Date,
		&post.ImageURL,
		&post.Article,
		&post.Likes,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

func (r *blogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	query := `INSERT INTO blog_posts (` + blogColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.ImageURL,
		post.Article,
		post.Likes,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// Update persists the editorial fields; likes are only changed by AddLikes
func (r *blogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, subtitle = $3, date = $4, image_url = $5, article = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, post.ID, post.Title, post.Subtitle, post.Date, post.ImageURL, post.Article)
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	return expectAffected(result, ErrBlogPostNotFound)
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	return expectAffected(result, ErrBlogPostNotFound)
}

func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, err := scanBlogPost(r.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("failed to find blog post by ID: %w", err)
	}

	return post, nil
}

// List retrieves posts, newest first
func (r *blogRepository) List(ctx context.Context, page domain.Page) ([]*domain.BlogPost, int, error) {
	total, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM blog_posts`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.BlogPost{}
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating blog posts: %w", err)
	}

	return posts, total, nil
}

// AddLikes adjusts the like counter by delta, never going below zero
func (r *blogRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int) (*domain.BlogPost, error) {
	query := `
		UPDATE blog_posts
		SET likes = GREATEST(likes + $2, 0)
		WHERE id = $1
		RETURNING ` + blogColumns

	post, err := scanBlogPost(r.db.QueryRowContext(ctx, query, id, delta))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("failed to update blog likes: %w", err)
	}

	return post, nil
}
