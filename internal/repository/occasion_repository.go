package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rsm-commerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOccasionNotFound = errors.New("occasion not found")
)

// OccasionRepository defines the interface for secondhand listing data access
type OccasionRepository interface {
	Create(ctx context.Context, occasion *domain.Occasion) error
	Update(ctx context.Context, occasion *domain.Occasion) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Occasion, error)
	List(ctx context.Context, filter domain.OccasionFilter, page domain.Page) ([]*domain.Occasion, int, error)
}

type occasionRepository struct {
	db *sql.DB
}

// NewOccasionRepository creates a new instance of OccasionRepository
func NewOccasionRepository(db *sql.DB) OccasionRepository {
	return &occasionRepository{db: db}
}

const occasionColumns = `id, title, description, category, price, image_url, condition, created_at, updated_at`

func scanOccasion(row rowScanner) (*domain.Occasion, error) {
	occasion := &domain.Occasion{}
	err := row.Scan(
		&occasion.ID,
		&occasion.Title,
		&occasion.Description,
		&occasion.Category,
		&occasion.Price,
		&occasion.ImageURL,
		&occasion.Condition,
		&occasion.CreatedAt,
		&occasion.UpdatedAt,
	)
	return occasion, err
}

func (r *occasionRepository) Create(ctx context.Context, occasion *domain.Occasion) error {
	query := `INSERT INTO occasions (` + occasionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		occasion.ID,
		occasion.Title,
		occasion.Description,
		occasion.Category,
		occasion.Price,
		occasion.ImageURL,
		string(occasion.Condition),
		occasion.CreatedAt,
		occasion.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("invalid occasion condition %q: %w", occasion.Condition, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create occasion: %w", err)
	}

	return nil
}

func (r *occasionRepository) Update(ctx context.Context, occasion *domain.Occasion) error {
	query := `
		UPDATE occasions
		SET title = $2, description = $3, category = $4, price = $5, image_url = $6, condition = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		occasion.ID,
		occasion.Title,
		occasion.Description,
		occasion.Category,
		occasion.Price,
		occasion.ImageURL,
		string(occasion.Condition),
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("invalid occasion condition %q: %w", occasion.Condition, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to update occasion: %w", err)
	}

	return expectAffected(result, ErrOccasionNotFound)
}

func (r *occasionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM occasions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete occasion: %w", err)
	}

	return expectAffected(result, ErrOccasionNotFound)
}

func (r *occasionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Occasion, error) {
	occasion, err := scanOccasion(r.db.QueryRowContext(ctx, `SELECT `+occasionColumns+` FROM occasions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOccasionNotFound
		}
		return nil, fmt.Errorf("failed to find occasion by ID: %w", err)
	}

	return occasion, nil
}

// List retrieves listings, newest first. Price bounds apply only as a pair.
func (r *occasionRepository) List(ctx context.Context, filter domain.OccasionFilter, page domain.Page) ([]*domain.Occasion, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price BETWEEN $%d AND $%d", argIndex, argIndex+1))
		args = append(args, *filter.MinPrice, *filter.MaxPrice)
		argIndex += 2
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	total, err := countRows(ctx, r.db, "SELECT COUNT(*) FROM occasions "+whereClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count occasions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM occasions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		occasionColumns, whereClause, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list occasions: %w", err)
	}
	defer rows.Close()

	occasions := []*domain.Occasion{}
	for rows.Next() {
		occasion, err := scanOccasion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan occasion: %w", err)
		}
		occasions = append(occasions, occasion)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating occasions: %w", err)
	}

	return occasions, total, nil
}
