// Package services contains server-side business logic. This file implements
// CatalogService: category and product reads for the storefront plus the
// admin mutations, including unique-slug assignment.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tejasharora/couture-backend/internal/common"
	"github.com/tejasharora/couture-backend/internal/server/models"
	"github.com/tejasharora/couture-backend/internal/server/repositories/repomanager"
	"github.com/tejasharora/couture-backend/internal/slugx"
)

// Slug collisions are resolved by suffixing -1, -2, ... up to this many
// attempts; after that a timestamp suffix guarantees forward progress.
const maxSlugAttempts = 50

// CategoryInput carries the admin-supplied fields of a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// ProductInput carries the admin-supplied fields of a product. Slug may be
// empty, in which case it is derived from Name.
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	ImageURL    string
	InStock     bool
	Featured    bool
	Tags        []string
}

// ProductUpdate is a partial update: nil fields keep their stored values.
type ProductUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	ImageURL    *string
	InStock     *bool
	Featured    *bool
	Tags        []string
}

// CatalogService provides catalog reads and admin mutations over the
// categories and products repositories.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: m,
		now:         time.Now,
	}
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

// ListProducts returns all products ordered by name, each annotated with its
// category's name.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx)
}

// FeaturedProducts returns the products flagged as featured, ordered by name.
func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).ListFeatured(ctx)
}

// ListProductsByCategory resolves the category slug first and then returns
// its products ordered by name. An unknown slug yields an empty list, not an
// error.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	category, err := s.repomanager.Categories(s.db).GetBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.repomanager.Products(s.db).ListByCategoryID(ctx, category.ID)
}

// GetProductBySlug returns a single product with its category name resolved.
// A missing slug yields common.ErrNotFound, distinct from transient store
// failures.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetBySlug(ctx, slug)
}

// CreateProduct inserts a product under a unique slug. The candidate slug is
// derived from the requested slug (or the name when absent); on a collision
// against the slug unique index the insert is retried with -1, -2, ...
// suffixes, falling back to a timestamp suffix.
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		InStock:     input.InStock,
		Featured:    input.Featured,
		Tags:        input.Tags,
	}

	base := baseSlug(input.Slug, input.Name)
	if base == "" {
		return nil, common.ErrEmptyName
	}

	created, err := s.withUniqueSlug(base, func(candidate string) (*models.Product, error) {
		product.Slug = candidate
		return s.repomanager.Products(s.db).Create(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}
	return created, nil
}

// UpdateProduct applies a partial update. Slug uniqueness is recomputed only
// when the update carries a slug different from the stored one.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, update *ProductUpdate) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slugChanged := applyProductUpdate(product, update)

	if product.Name == "" {
		return nil, common.ErrEmptyName
	}
	if !product.Price.IsPositive() {
		return nil, common.ErrInvalidPrice
	}

	if !slugChanged {
		updated, err := repo.Update(ctx, product)
		if err != nil {
			return nil, fmt.Errorf("error updating product: %w", err)
		}
		return updated, nil
	}

	base := baseSlug(*update.Slug, product.Name)
	if base == "" {
		return nil, common.ErrEmptyName
	}

	updated, err := s.withUniqueSlug(base, func(candidate string) (*models.Product, error) {
		product.Slug = candidate
		return repo.Update(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("error updating product: %w", err)
	}
	return updated, nil
}

// DeleteProduct removes a product by ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.repomanager.Products(s.db).Delete(ctx, id)
}

// CreateCategory inserts a category. Unlike products, category slugs are not
// retried on collision; the conflict surfaces to the caller.
func (s *CatalogService) CreateCategory(ctx context.Context, input *CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, common.ErrEmptyName
	}

	slug := baseSlug(input.Slug, input.Name)
	if slug == "" {
		return nil, common.ErrEmptyName
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	}
	created, err := s.repomanager.Categories(s.db).Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return created, nil
}

// UpdateCategory rewrites a category's fields by ID.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input *CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, common.ErrEmptyName
	}

	slug := baseSlug(input.Slug, input.Name)
	if slug == "" {
		return nil, common.ErrEmptyName
	}

	category := &models.Category{
		ID:          id,
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	}
	updated, err := s.repomanager.Categories(s.db).Update(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("error updating category: %w", err)
	}
	return updated, nil
}

// DeleteCategory removes a category by ID.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.repomanager.Categories(s.db).Delete(ctx, id)
}

// --- helpers below ---

// withUniqueSlug runs write with base, then base-1, base-2, ... while the
// write keeps failing with common.ErrConflict. After maxSlugAttempts, or when
// a conflict still occurs on the timestamp candidate, the last error is
// returned.
func (s *CatalogService) withUniqueSlug(base string, write func(candidate string) (*models.Product, error)) (*models.Product, error) {
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		product, err := write(candidate)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		candidate = slugx.WithSuffix(base, strconv.Itoa(i))
	}

	// numeric suffixes exhausted
	return write(slugx.WithSuffix(base, strconv.FormatInt(s.now().Unix(), 10)))
}

func baseSlug(requested, name string) string {
	if requested != "" {
		return slugx.Make(requested)
	}
	return slugx.Make(name)
}

func validateProductInput(input *ProductInput) error {
	if input.Name == "" {
		return common.ErrEmptyName
	}
	if !input.Price.IsPositive() {
		return common.ErrInvalidPrice
	}
	if input.CategoryID == "" {
		return common.ErrUnknownCategory
	}
	return nil
}

// applyProductUpdate copies set fields onto product and reports whether the
// update carries a slug different from the stored one.
func applyProductUpdate(product *models.Product, update *ProductUpdate) bool {
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.CategoryID != nil {
		product.CategoryID = *update.CategoryID
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.InStock != nil {
		product.InStock = *update.InStock
	}
	if update.Featured != nil {
		product.Featured = *update.Featured
	}
	if update.Tags != nil {
		product.Tags = update.Tags
	}

	return update.Slug != nil && slugx.Make(*update.Slug) != product.Slug
}
