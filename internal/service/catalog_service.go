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

const (
	DefaultProductPageSize = 10

	// allFilter is the listing value meaning "no filter"
	allFilter = "all"
)

var ErrProductNotFound = apperr.NotFound("product not found")

// ProductPage is one page of the catalog
type ProductPage struct {
	Products      []*domain.Product `json:"products"`
	TotalPages    int               `json:"totalPages"`
	TotalProducts int               `json:"totalProducts"`
}

// CatalogService defines the interface for product catalog logic
type CatalogService interface {
	CreateProduct(ctx context.Context, authorID uuid.UUID, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter, page domain.Page) (*ProductPage, error)
	RelatedProducts(ctx context.Context, id uuid.UUID) ([]*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) CatalogService {
	return &catalogService{productRepo: productRepo, reviewRepo: reviewRepo}
}

func (s *catalogService) findProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Persistence("failed to load product", err)
	}
	return product, nil
}

// CreateProduct stores a new product authored by authorID. Rating starts at 0.
func (s *catalogService) CreateProduct(ctx context.Context, authorID uuid.UUID, product *domain.Product) (*domain.Product, error) {
	now := time.Now()
	product.ID = uuid.New()
	product.AuthorID = authorID
	product.Rating = 0
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Validation("product author does not exist")
		}
		return nil, apperr.Persistence("failed to create product", err)
	}

	return s.findProduct(ctx, product.ID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(product)
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Persistence("failed to update product", err)
	}

	return s.findProduct(ctx, id)
}

// DeleteProduct removes a product and its reviews; orders keep their snapshot
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return apperr.Persistence("failed to delete product", err)
	}
	return nil
}

// GetProduct assembles a product with its reviews
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("failed to load product reviews", err)
	}

	return &domain.ProductDetail{Product: product, Reviews: reviews}, nil
}

// normalizeProductFilter drops the "all" sentinel from category and gamme
func normalizeProductFilter(filter domain.ProductFilter) domain.ProductFilter {
	if strings.EqualFold(filter.Category, allFilter) {
		filter.Category = ""
	}
	if strings.EqualFold(filter.Gamme, allFilter) {
		filter.Gamme = ""
	}
	return filter
}

func (s *catalogService) ListProducts(ctx context.Context, filter domain.ProductFilter, page domain.Page) (*ProductPage, error) {
	products, total, err := s.productRepo.List(ctx, normalizeProductFilter(filter), page)
	if err != nil {
		return nil, apperr.Persistence("failed to list products", err)
	}

	return &ProductPage{
		Products:      products,
		TotalPages:    page.TotalPages(total),
		TotalProducts: total,
	}, nil
}

func (s *catalogService) RelatedProducts(ctx context.Context, id uuid.UUID) ([]*domain.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.Related(ctx, product)
	if err != nil {
		return nil, apperr.Persistence("failed to find related products", err)
	}
	return related, nil
}
