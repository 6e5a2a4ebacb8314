package services

import "errors"

// Errors returned by the services, wrapped with detail. Match with errors.Is.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidVariant    = errors.New("invalid product variant")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidSort       = errors.New("unknown sort order")
	ErrInvalidProduct    = errors.New("invalid product")
)
