package catalog

import "github.com/shopspring/decimal"

// AddBookInput carries the administrative add-book payload. ID, rating and
// publish date are synthesized by the service.
type AddBookInput struct {
	Title       string          `json:"title" validate:"required"`
	Author      string          `json:"author" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CoverImage  string          `json:"cover_image"`
}
