package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejasharora/couture-backend/internal/common"
	"github.com/tejasharora/couture-backend/internal/logging"
	"github.com/tejasharora/couture-backend/internal/server/auth"
	"github.com/tejasharora/couture-backend/internal/server/config"
	"github.com/tejasharora/couture-backend/internal/server/models"
	"github.com/tejasharora/couture-backend/internal/server/services"
)

const (
	testSecret    = "testsecret"
	testProductID = "2b1f0a9c-8c3d-4e5f-9a6b-7c8d9e0f1a2b"
)

// --- fakes ---

type fakeCatalog struct {
	categories []*models.Category
	products   map[string]*models.Product

	created     *services.ProductInput
	lastUpdate  *services.ProductUpdate
	deletedID   string
	categoryErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{}}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.categories, nil
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, input *services.CategoryInput) (*models.Category, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return &models.Category{ID: "c-1", Name: input.Name, Slug: "jeans"}, nil
}

func (f *fakeCatalog) UpdateCategory(ctx context.Context, id string, input *services.CategoryInput) (*models.Category, error) {
	return &models.Category{ID: id, Name: input.Name, Slug: "jeans"}, nil
}

func (f *fakeCatalog) DeleteCategory(ctx context.Context, id string) error { return f.categoryErr }

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) FeaturedProducts(ctx context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListProductsByCategory(ctx context.Context, categorySlug string) ([]*models.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, ok := f.products[slug]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, input *services.ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, common.ErrEmptyName
	}
	f.created = input
	return &models.Product{
		ID: "p-1", Name: input.Name, Slug: "milano-slim-fit",
		Price: input.Price, CategoryID: input.CategoryID,
	}, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id string, update *services.ProductUpdate) (*models.Product, error) {
	f.lastUpdate = update
	p := &models.Product{ID: id, Name: "Milano Slim Fit", Slug: "milano-slim-fit"}
	if update.ImageURL != nil {
		p.ImageURL = *update.ImageURL
	}
	return p, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeUsers struct {
	users      map[string]*models.AuthUser // keyed by ID
	password   string
	refreshErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.AuthUser{}, password: "password1"}
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.AuthUser, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, common.ErrConflict
		}
	}
	u := &models.AuthUser{ID: "u-1", Email: email}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.AuthUser, *services.TokenPair, error) {
	if password != f.password {
		return nil, nil, common.ErrUnauthorized
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
		}
	}
	return nil, nil, common.ErrUnauthorized
}

func (f *fakeUsers) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &services.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil
}

func (f *fakeUsers) Logout(ctx context.Context, refreshToken string) error { return nil }

func (f *fakeUsers) CurrentUser(ctx context.Context, userID string) (*models.AuthUser, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeImages struct {
	uploads int
}

func (f *fakeImages) UploadProductImage(ctx context.Context, productID string, filename string, data []byte) (string, error) {
	f.uploads++
	return "http://127.0.0.1:9000/product-images/" + productID + "-1717243200" + ".jpg", nil
}

// --- helpers ---

func newTestServer(catalog *fakeCatalog, users *fakeUsers, images *fakeImages) *Server {
	cfg := &config.Config{
		EndpointAddrHTTP: ":0",
		SecretKey:        testSecret,
		StorePhone:       "+918910131099",
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(log, cfg, catalog, users, images)
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestListCategories(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.categories = []*models.Category{
		{ID: "c-1", Name: "Jeans", Slug: "jeans"},
	}
	srv := newTestServer(catalog, newFakeUsers(), &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []categoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "jeans", got[0].Slug)
}

func TestGetProduct_IncludesOrderLink(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.products["milano-slim-fit"] = &models.Product{
		ID: "p-1", Name: "Milano Slim Fit", Slug: "milano-slim-fit",
		Price: decimal.NewFromInt(2499), CategoryName: "Jeans",
	}
	srv := newTestServer(catalog, newFakeUsers(), &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/products/milano-slim-fit", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "https://wa.me/918910131099?text=I%27d%20like%20to%20inquire%20about%20Milano%20Slim%20Fit", got.OrderURL)
	assert.Equal(t, "Jeans", got.CategoryName)
}

func TestListProducts_FeaturedFilter(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.products["milano-slim-fit"] = &models.Product{
		ID: "p-1", Name: "Milano Slim Fit", Slug: "milano-slim-fit", Featured: true,
	}
	catalog.products["oxford-shirt"] = &models.Product{
		ID: "p-2", Name: "Oxford Shirt", Slug: "oxford-shirt",
	}
	srv := newTestServer(catalog, newFakeUsers(), &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/products?featured=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "milano-slim-fit", got[0].Slug)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := newTestServer(newFakeCatalog(), newFakeUsers(), &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_RequiresAuth(t *testing.T) {
	srv := newTestServer(newFakeCatalog(), newFakeUsers(), &fakeImages{})

	body := strings.NewReader(`{"name":"Milano Slim Fit","price":"2499","category_id":"c-1"}`)
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "customer@example.com", IsAdmin: false}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products",
		strings.NewReader(`{"name":"Milano Slim Fit","price":"2499","category_id":"c-1"}`))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProduct_AsAdmin(t *testing.T) {
	catalog := newFakeCatalog()
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(catalog, users, &fakeImages{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products",
		strings.NewReader(`{"name":"Milano Slim Fit","price":"2499","category_id":"c-1","tags":["denim"]}`))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, catalog.created)
	assert.Equal(t, "Milano Slim Fit", catalog.created.Name)
	assert.Equal(t, []string{"denim"}, catalog.created.Tags)
	assert.True(t, catalog.created.Price.Equal(decimal.NewFromInt(2499)))
}

func TestCreateProduct_ValidationError(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products",
		strings.NewReader(`{"price":"2499","category_id":"c-1"}`))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegister_Conflict(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "customer@example.com"}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"customer@example.com","password":"password1"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "customer@example.com"}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"customer@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "customer@example.com"}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"customer@example.com","password":"password1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "customer@example.com", got.User.Email)
	assert.NotEmpty(t, got.Tokens.AccessToken)
}

func TestRefresh_Expired(t *testing.T) {
	users := newFakeUsers()
	users.refreshErr = common.ErrRefreshTokenExpired
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refresh_token":"stale"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.IsAdmin)
}

func TestMe_InvalidToken(t *testing.T) {
	srv := newTestServer(newFakeCatalog(), newFakeUsers(), &fakeImages{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer notatoken")

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadProductImage(t *testing.T) {
	catalog := newFakeCatalog()
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	images := &fakeImages{}
	srv := newTestServer(catalog, users, images)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+testProductID+"/image", &buf)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := doRequest(srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, images.uploads)

	var got imageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.ImageURL, "product-images/"+testProductID)

	// the URL must be persisted on the product
	require.NotNil(t, catalog.lastUpdate)
	require.NotNil(t, catalog.lastUpdate.ImageURL)
	assert.Equal(t, got.ImageURL, *catalog.lastUpdate.ImageURL)
}

func TestUploadProductImage_MissingFile(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+testProductID+"/image", &buf)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_MalformedID(t *testing.T) {
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(newFakeCatalog(), users, &fakeImages{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/not-a-uuid",
		strings.NewReader(`{"name":"X"}`))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	catalog := newFakeCatalog()
	users := newFakeUsers()
	users.users["u-1"] = &models.AuthUser{ID: "u-1", Email: "owner@example.com", IsAdmin: true}
	srv := newTestServer(catalog, users, &fakeImages{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+testProductID, nil)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))

	rec := doRequest(srv, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testProductID, catalog.deletedID)
}
