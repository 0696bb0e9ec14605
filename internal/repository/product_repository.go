package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rsm-commerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error)
	Related(ctx context.Context, product *domain.Product) ([]*domain.Product, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.category, p.description, p.price, p.old_price, p.image,
	       p.gamme, p.rating, p.author_id, COALESCE(u.email, ''), p.created_at, p.updated_at
	FROM products p
	LEFT JOIN users u ON u.id = p.author_id
`

// scanProduct reads a productSelect row. A product whose author was deleted
// has a nil AuthorID.
func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var authorID uuid.NullUUID
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.Description,
		&product.Price,
		&product.OldPrice,
		&product.Image,
		&product.Gamme,
		&product.Rating,
		&authorID,
		&product.AuthorEmail,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	product.AuthorID = authorID.UUID
	return product, err
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, description, price, old_price, image, gamme, rating, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.OldPrice,
		product.Image,
		product.Gamme,
		product.Rating,
		product.AuthorID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update persists the catalog fields. Rating is owned by RecomputeRating.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, description = $4, price = $5,
		    old_price = $6, image = $7, gamme = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.OldPrice,
		product.Image,
		product.Gamme,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectAffected(result, ErrProductNotFound)
}

// Delete removes a product together with its reviews in one transaction
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete product reviews: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return expectAffected(result, ErrProductNotFound)
	})
}

// FindByID retrieves a product with its author's email
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products, newest first, with optional filtering and pagination
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Gamme != "" {
		conditions = append(conditions, fmt.Sprintf("p.gamme = $%d", argIndex))
		args = append(args, filter.Gamme)
		argIndex++
	}

	// A price range only applies when both bounds are present
	if filter.MinPrice != nil && filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price BETWEEN $%d AND $%d", argIndex, argIndex+1))
		args = append(args, *filter.MinPrice, *filter.MaxPrice)
		argIndex += 2
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	total, err := countRows(ctx, r.db, "SELECT COUNT(*) FROM products p "+whereClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`%s %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		productSelect, whereClause, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// nameWordsPattern builds a case-insensitive alternation of the words of a
// product name, ignoring single characters. Empty when no word qualifies.
func nameWordsPattern(name string) string {
	words := []string{}
	for _, word := range strings.Fields(name) {
		if len([]rune(word)) > 1 {
			words = append(words, regexp.QuoteMeta(word))
		}
	}
	return strings.Join(words, "|")
}

// Related returns other products sharing the category or a word of the name
func (r *productRepository) Related(ctx context.Context, product *domain.Product) ([]*domain.Product, error) {
	query := productSelect + ` WHERE p.id <> $1 AND p.category = $2 ORDER BY p.created_at DESC`
	args := []interface{}{product.ID, product.Category}

	if pattern := nameWordsPattern(product.Name); pattern != "" {
		query = productSelect + ` WHERE p.id <> $1 AND (p.category = $2 OR p.name ~* $3) ORDER BY p.created_at DESC`
		args = append(args, pattern)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}

	return scanProducts(rows)
}

// RecomputeRating sets the product rating to the mean of its reviews in a
// single statement, so concurrent review writes cannot leave a stale value.
func (r *productRepository) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error) {
	return recomputeRating(ctx, r.db, id)
}

func recomputeRating(ctx context.Context, q querier, id uuid.UUID) (float64, error) {
	query := `
		UPDATE products
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = $1), 0)
		WHERE id = $1
		RETURNING rating
	`

	var rating float64
	if err := q.QueryRowContext(ctx, query, id).Scan(&rating); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to recompute product rating: %w", err)
	}

	return rating, nil
}
