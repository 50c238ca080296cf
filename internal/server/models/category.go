package models

import "time"

// Category is a named grouping of products. Slug is unique across all
// categories and is derived from Name unless manually overridden.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
