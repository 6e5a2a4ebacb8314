package services

import "moda/internal/models"

const (
	DefaultShippingFee           int64 = 3000
	DefaultFreeShippingThreshold int64 = 50000
)

// ShippingPolicy is a flat shipping fee waived above a subtotal threshold.
type ShippingPolicy struct {
	Fee           int64
	FreeThreshold int64
}

// DefaultShippingPolicy charges 3,000 won unless the subtotal exceeds 50,000 won.
var DefaultShippingPolicy = ShippingPolicy{Fee: DefaultShippingFee, FreeThreshold: DefaultFreeShippingThreshold}

// Quote is the price breakdown of a cart.
type Quote struct {
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"itemCount"`
}

// Subtotal sums price times quantity over items.
func Subtotal(items []models.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return sum
}

// ShippingFor returns the fee for a subtotal. The threshold itself still pays.
func (p ShippingPolicy) ShippingFor(subtotal int64) int64 {
	if subtotal > p.FreeThreshold {
		return 0
	}
	return p.Fee
}

// Quote prices items. An empty cart costs nothing.
func (p ShippingPolicy) Quote(items []models.CartItem) Quote {
	if len(items) == 0 {
		return Quote{}
	}
	subtotal := Subtotal(items)
	shipping := p.ShippingFor(subtotal)
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return Quote{Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping, ItemCount: count}
}
