package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tejasharora/couture-backend/internal/server/models"
	"github.com/tejasharora/couture-backend/internal/server/services"
)

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c *models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryResponses(categories []*models.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

type productResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	InStock      bool            `json:"in_stock"`
	Featured     bool            `json:"featured"`
	Tags         []string        `json:"tags,omitempty"`
	OrderURL     string          `json:"order_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// toProductResponse attaches the WhatsApp inquiry link alongside the stored
// product fields.
func (s *Server) toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ImageURL:     p.ImageURL,
		InStock:      p.InStock,
		Featured:     p.Featured,
		Tags:         p.Tags,
		OrderURL:     services.BuildOrderLink(s.storePhone, p.Name),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (s *Server) toProductResponses(products []*models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, s.toProductResponse(p))
	}
	return out
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (r *categoryRequest) toInput() *services.CategoryInput {
	return &services.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

type productRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	Featured    bool            `json:"featured"`
	Tags        []string        `json:"tags"`
}

func (r *productRequest) toInput() *services.ProductInput {
	return &services.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		InStock:     r.InStock,
		Featured:    r.Featured,
		Tags:        r.Tags,
	}
}

// productUpdateRequest keeps absent fields nil so partial updates leave the
// stored values untouched.
type productUpdateRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	ImageURL    *string          `json:"image_url"`
	InStock     *bool            `json:"in_stock"`
	Featured    *bool            `json:"featured"`
	Tags        []string         `json:"tags"`
}

func (r *productUpdateRequest) toUpdate() *services.ProductUpdate {
	return &services.ProductUpdate{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		InStock:     r.InStock,
		Featured:    r.Featured,
		Tags:        r.Tags,
	}
}

type userResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func toUserResponse(u *models.AuthUser) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toTokenPairResponse(pair *services.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

type loginResponse struct {
	User   userResponse      `json:"user"`
	Tokens tokenPairResponse `json:"tokens"`
}

type imageResponse struct {
	ImageURL string `json:"image_url"`
}
