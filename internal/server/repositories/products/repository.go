package products

import (
	"context"

	"github.com/tejasharora/couture-backend/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListFeatured(ctx context.Context) ([]*models.Product, error)
	ListByCategoryID(ctx context.Context, categoryID string) ([]*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
