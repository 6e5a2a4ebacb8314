package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Re-applying the current status is allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return from.Valid()
	}
	return validNext[from][to]
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCard  PaymentMethod = "card"
	PaymentBank  PaymentMethod = "bank"
	PaymentKakao PaymentMethod = "kakao"
	PaymentNaver PaymentMethod = "naver"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentBank, PaymentKakao, PaymentNaver:
		return true
	}
	return false
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ZipCode       string `json:"zipCode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
}

// Order represents a placed purchase. Only Status changes after creation.
type Order struct {
	ID              string          `json:"id"`
	Items           []CartItem      `json:"items"`
	Total           int64           `json:"total"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	c.Items = CloneCart(o.Items)
	return c
}
