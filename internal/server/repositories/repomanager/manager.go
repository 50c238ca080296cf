package repomanager

import (
	"context"
	"database/sql"

	"github.com/tejasharora/couture-backend/internal/dbx"
	"github.com/tejasharora/couture-backend/internal/server/repositories/categories"
	"github.com/tejasharora/couture-backend/internal/server/repositories/products"
	"github.com/tejasharora/couture-backend/internal/server/repositories/refreshtokens"
	"github.com/tejasharora/couture-backend/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a specific DBTX, so the
// same factory serves plain and transactional access.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Categories(db dbx.DBTX) categories.Repository
	Products(db dbx.DBTX) products.Repository
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
