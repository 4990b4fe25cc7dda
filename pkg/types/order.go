package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookhavenapp/bookhaven-backend/pkg/enums"
)

// ShippingDetails is the optional address snapshot captured at checkout.
type ShippingDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
}

// Order is a placed order. Items and total are frozen at creation time and
// never recomputed, even when catalog prices drift afterwards.
type Order struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"user_id"`
	Items             []CartItem        `json:"items"`
	Total             decimal.Decimal   `json:"total"`
	Status            enums.OrderStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	EstimatedDelivery time.Time         `json:"estimated_delivery"`
	ShippingDetails   *ShippingDetails  `json:"shipping_details,omitempty"`
}
