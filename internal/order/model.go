package order

import (
	"time"

	"marketgo/internal/cart"
)

// Order is a checkout record. Orders are immutable once created; the
// collection is append-only, newest first. ID is the creation timestamp in
// milliseconds and doubles as the deep-link identifier.
type Order struct {
	ID       int64            `json:"id"`
	Items    []cart.Item      `json:"items"`
	Total    float64          `json:"total"`
	Date     time.Time        `json:"date"`
	Shipping *ShippingDetails `json:"shippingDetails,omitempty"`
}

type ShippingDetails struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,len=10,numeric"`
	Address string `json:"address" validate:"required"`
}
