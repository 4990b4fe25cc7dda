package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalog record. Books are append-only from the client's
// perspective: administrative addition exists, in-place edits do not.
type Book struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	CoverImage  string          `json:"cover_image"`
	Rating      float64         `json:"rating"`
	PublishDate time.Time       `json:"publish_date"`
}
