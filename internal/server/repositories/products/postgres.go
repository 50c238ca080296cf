// Package products provides a PostgreSQL-backed repository for catalog
// products. Read queries join the categories table so each product carries
// its category's name for display.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tejasharora/couture-backend/internal/common"
	"github.com/tejasharora/couture-backend/internal/dbx"
	"github.com/tejasharora/couture-backend/internal/server/models"
)

// PostgresRepository implements product storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `
	p.id, p.name, p.slug, COALESCE(p.description, ''), p.price, p.category_id,
	COALESCE(p.image_url, ''), p.in_stock, p.featured, p.tags,
	p.created_at, p.updated_at, c.name
`

func scanProduct(rows interface {
	Scan(dest ...any) error
}, p *models.Product) error {
	return rows.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CategoryID,
		&p.ImageURL, &p.InStock, &p.Featured, (*pq.StringArray)(&p.Tags),
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := scanProduct(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns all products ordered by name, with the category name resolved.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.name
	`
	return r.selectMany(ctx, query)
}

// ListFeatured returns products with featured = true, ordered by name.
func (r *PostgresRepository) ListFeatured(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.featured = true
		ORDER BY p.name
	`
	return r.selectMany(ctx, query)
}

// ListByCategoryID returns the products referencing the given category,
// ordered by name.
func (r *PostgresRepository) ListByCategoryID(ctx context.Context, categoryID string) ([]*models.Product, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1
		ORDER BY p.name
	`
	return r.selectMany(ctx, query, categoryID)
}

// GetBySlug returns the product with the given slug or common.ErrNotFound.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`
	product := &models.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query, slug), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return product, nil
}

// GetByID returns the product with the given ID or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`
	product := &models.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return product, nil
}

// Create inserts a product. A slug collision against the unique index is
// reported as common.ErrConflict so the caller can retry with a suffixed
// candidate.
func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, slug, description, price, category_id, image_url, in_stock, featured, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.Price,
		product.CategoryID, product.ImageURL, product.InStock, product.Featured,
		pq.StringArray(product.Tags)).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("slug %q: %w", product.Slug, common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return product, nil
}

// Update rewrites the mutable fields of a product by ID.
func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, category_id = $6,
			image_url = $7, in_stock = $8, featured = $9, tags = $10, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		product.ID, product.Name, product.Slug, product.Description, product.Price,
		product.CategoryID, product.ImageURL, product.InStock, product.Featured,
		pq.StringArray(product.Tags)).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("slug %q: %w", product.Slug, common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return product, nil
}

// Delete removes a product by ID. Missing rows yield common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
