package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog item. Slug is unique across all products.
// CategoryName is resolved from the categories table for display and is never
// persisted back.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	ImageURL    string
	InStock     bool
	Featured    bool
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	CategoryName string
}
