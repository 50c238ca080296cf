// Package httpapi exposes the storefront over HTTP/JSON: public catalog
// reads, token-based authentication, and admin mutations guarded by
// server-side authorization.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tejasharora/couture-backend/internal/logging"
	"github.com/tejasharora/couture-backend/internal/server/config"
	"github.com/tejasharora/couture-backend/internal/server/models"
	"github.com/tejasharora/couture-backend/internal/server/services"
)

const shutdownTimeout = 20 * time.Second

type catalogService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, input *services.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, input *services.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	FeaturedProducts(ctx context.Context) ([]*models.Product, error)
	ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, input *services.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, update *services.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type userService interface {
	Register(ctx context.Context, email, password string) (*models.AuthUser, error)
	Login(ctx context.Context, email, password string) (*models.AuthUser, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*models.AuthUser, error)
}

type imageService interface {
	UploadProductImage(ctx context.Context, productID string, filename string, data []byte) (string, error)
}

// Server routes HTTP requests to the catalog, user, and image services.
type Server struct {
	log     logging.Logger
	catalog catalogService
	users   userService
	images  imageService

	addr       string
	jwtSecret  []byte
	storePhone string
}

// NewServer constructs a Server over the given services.
func NewServer(log logging.Logger, cfg *config.Config,
	catalog catalogService, users userService, images imageService) *Server {
	return &Server{
		log:        log,
		catalog:    catalog,
		users:      users,
		images:     images,
		addr:       cfg.EndpointAddrHTTP,
		jwtSecret:  []byte(cfg.SecretKey),
		storePhone: cfg.StorePhone,
	}
}

// Router assembles the chi router with all API routes mounted under /api/v1.
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(chimiddleware.StripSlashes)
	router.Mount("/api/v1", s.v1Router())
	return router
}

func (s *Server) v1Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/categories", s.listCategories)
	r.Get("/categories/{slug}/products", s.listProductsByCategory)
	r.Get("/products", s.listProducts)
	r.Get("/products/featured", s.listFeaturedProducts)
	r.Get("/products/{slug}", s.getProduct)

	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)
	r.Post("/auth/refresh", s.refresh)
	r.Post("/auth/logout", s.logout)
	r.With(s.requireAuth).Get("/auth/me", s.me)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth, s.requireAdmin)

		r.Post("/categories", s.createCategory)
		r.Put("/categories/{id}", s.updateCategory)
		r.Delete("/categories/{id}", s.deleteCategory)

		r.Post("/products", s.createProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)
		r.Post("/products/{id}/image", s.uploadProductImage)
	})

	return r
}

// Run serves the API until ctx is cancelled, then drains in-flight requests
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info(ctx, "http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info(context.Background(), "http server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
