// Package server assembles the storefront backend: it opens the database,
// runs migrations, wires the services, and serves the HTTP API until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tejasharora/couture-backend/internal/logging"
	"github.com/tejasharora/couture-backend/internal/server/config"
	"github.com/tejasharora/couture-backend/internal/server/httpapi"
	"github.com/tejasharora/couture-backend/internal/server/repositories/repomanager"
	"github.com/tejasharora/couture-backend/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	catalog := services.NewCatalogService(db, rm)
	users := services.NewUserService(db, rm, c)
	images := services.NewImageService(c)

	srv := httpapi.NewServer(logger, c, catalog, users, images)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) Run(ctx context.Context) {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
