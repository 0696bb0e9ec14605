package service

import (
	"context"
	"errors"
	"time"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultBlogPageSize    = 4
	DefaultBlogArchiveSize = 12
	MaxBlogPageSize        = 100
)

var ErrBlogPostNotFound = apperr.NotFound("blog post not found")

// BlogPage is one page of posts
type BlogPage struct {
	Posts      []*domain.BlogPost `json:"posts"`
	TotalPages int                `json:"totalPages"`
	TotalPosts int                `json:"totalPosts"`
}

type BlogService interface {
	CreatePost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, update domain.BlogPostUpdate) (*domain.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
	ListPosts(ctx context.Context, page domain.Page) (*BlogPage, error)
	Like(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
	Unlike(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
}

type blogService struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogService{blogRepo: blogRepo}
}

func blogError(err error, action string) error {
	if errors.Is(err, repository.ErrBlogPostNotFound) {
		return ErrBlogPostNotFound
	}
	return apperr.Persistence("failed to "+action, err)
}

// CreatePost stores a new post with no likes
func (s *blogService) CreatePost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	now := time.Now()
	post.ID = uuid.New()
	post.Likes = 0
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.blogRepo.Create(ctx, post); err != nil {
		return nil, blogError(err, "create blog post")
	}
	return post, nil
}

func (s *blogService) UpdatePost(ctx context.Context, id uuid.UUID, update domain.BlogPostUpdate) (*domain.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(post)
	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, blogError(err, "update blog post")
	}
	return s.GetPost(ctx, id)
}

func (s *blogService) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return blogError(err, "delete blog post")
	}
	return nil
}

func (s *blogService) GetPost(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, blogError(err, "get blog post")
	}
	return post, nil
}

func (s *blogService) ListPosts(ctx context.Context, page domain.Page) (*BlogPage, error) {
	posts, total, err := s.blogRepo.List(ctx, page)
	if err != nil {
		return nil, apperr.Persistence("failed to list blog posts", err)
	}

	return &BlogPage{
		Posts:      posts,
		TotalPages: page.TotalPages(total),
		TotalPosts: total,
	}, nil
}

func (s *blogService) Like(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, err := s.blogRepo.AddLikes(ctx, id, 1)
	if err != nil {
		return nil, blogError(err, "like blog post")
	}
	return post, nil
}

// Unlike removes one like; the counter stops at zero
func (s *blogService) Unlike(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, err := s.blogRepo.AddLikes(ctx, id, -1)
	if err != nil {
		return nil, blogError(err, "unlike blog post")
	}
	return post, nil
}
