// Package categories provides a PostgreSQL-backed repository for product
// categories.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tejasharora/couture-backend/internal/common"
	"github.com/tejasharora/couture-backend/internal/dbx"
	"github.com/tejasharora/couture-backend/internal/server/models"
)

// PostgresRepository implements category storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all categories ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, ''), created_at, updated_at
		FROM categories
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.Description,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetBySlug returns the category with the given slug or common.ErrNotFound.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, ''), created_at, updated_at
		FROM categories
		WHERE slug = $1
	`
	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&category.ID, &category.Name,
		&category.Slug, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

// Create inserts a category. A slug collision against the unique index is
// reported as common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Slug, category.Description).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("slug %q: %w", category.Slug, common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

// Update rewrites the mutable fields of a category by ID.
func (r *PostgresRepository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, slug, COALESCE(description, ''), created_at, updated_at
	`
	updated := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, category.ID, category.Name, category.Slug, category.Description).
		Scan(&updated.ID, &updated.Name, &updated.Slug, &updated.Description,
			&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("slug %q: %w", category.Slug, common.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

// Delete removes a category by ID. Missing rows yield common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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
