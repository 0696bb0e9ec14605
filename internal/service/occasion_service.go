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

const DefaultOccasionPageSize = 12

var ErrOccasionNotFound = apperr.NotFound("occasion not found")

// OccasionPage is one page of secondhand listings
type OccasionPage struct {
	Occasions      []*domain.Occasion `json:"occasions"`
	TotalPages     int                `json:"totalPages"`
	TotalOccasions int                `json:"totalOccasions"`
}

type OccasionService interface {
	CreateOccasion(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error)
	UpdateOccasion(ctx context.Context, id uuid.UUID, update domain.OccasionUpdate) (*domain.Occasion, error)
	DeleteOccasion(ctx context.Context, id uuid.UUID) error
	GetOccasion(ctx context.Context, id uuid.UUID) (*domain.Occasion, error)
	ListOccasions(ctx context.Context, filter domain.OccasionFilter, page domain.Page) (*OccasionPage, error)
}

type occasionService struct {
	occasionRepo repository.OccasionRepository
}

func NewOccasionService(occasionRepo repository.OccasionRepository) OccasionService {
	return &occasionService{occasionRepo: occasionRepo}
}

func occasionError(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrOccasionNotFound):
		return ErrOccasionNotFound
	case errors.Is(err, repository.ErrConstraintViolation):
		return apperr.Validation("condition must be one of new, very-good, good, fair")
	}
	return apperr.Persistence("failed to "+action, err)
}

func (s *occasionService) CreateOccasion(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error) {
	now := time.Now()
	occasion.ID = uuid.New()
	occasion.CreatedAt = now
	occasion.UpdatedAt = now

	if err := s.occasionRepo.Create(ctx, occasion); err != nil {
		return nil, occasionError(err, "create occasion")
	}
	return occasion, nil
}

func (s *occasionService) UpdateOccasion(ctx context.Context, id uuid.UUID, update domain.OccasionUpdate) (*domain.Occasion, error) {
	occasion, err := s.GetOccasion(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(occasion)
	if err := s.occasionRepo.Update(ctx, occasion); err != nil {
		return nil, occasionError(err, "update occasion")
	}
	return s.GetOccasion(ctx, id)
}

func (s *occasionService) DeleteOccasion(ctx context.Context, id uuid.UUID) error {
	if err := s.occasionRepo.Delete(ctx, id); err != nil {
		return occasionError(err, "delete occasion")
	}
	return nil
}

func (s *occasionService) GetOccasion(ctx context.Context, id uuid.UUID) (*domain.Occasion, error) {
	occasion, err := s.occasionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, occasionError(err, "get occasion")
	}
	return occasion, nil
}

func (s *occasionService) ListOccasions(ctx context.Context, filter domain.OccasionFilter, page domain.Page) (*OccasionPage, error) {
	if filter.Category == allFilter {
		filter.Category = ""
	}

	occasions, total, err := s.occasionRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperr.Persistence("failed to list occasions", err)
	}

	return &OccasionPage{
		Occasions:      occasions,
		TotalPages:     page.TotalPages(total),
		TotalOccasions: total,
	}, nil
}
