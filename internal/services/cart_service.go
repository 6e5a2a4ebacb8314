package services

import (
	"fmt"

	"moda/internal/models"
)

// CartStore is the part of the store the cart service needs.
type CartStore interface {
	Product(id string) (models.Product, bool)
	Cart() []models.CartItem
	AddToCart(item models.CartItem)
	UpdateCartQuantity(productID string, quantity int) bool
	RemoveFromCart(productID string) bool
	ClearCart()
}

// CartView is the cart with its price breakdown.
type CartView struct {
	Items []models.CartItem `json:"items"`
	Quote
}

// AddToCartRequest is a purchase intent for one product variant.
type AddToCartRequest struct {
	ProductID     string
	Quantity      int
	SelectedColor string
	SelectedSize  string
}

// CartService validates cart changes before they reach the store.
type CartService struct {
	store    CartStore
	shipping ShippingPolicy
}

// NewCartService creates a new CartService.
func NewCartService(store CartStore, shipping ShippingPolicy) *CartService {
	return &CartService{
		store:    store,
		shipping: shipping,
	}
}

// GetCart returns the cart and its quote.
func (s *CartService) GetCart() CartView {
	items := s.store.Cart()
	return CartView{Items: items, Quote: s.shipping.Quote(items)}
}

// AddToCart captures the current product and adds it to the cart.
func (s *CartService) AddToCart(req AddToCartRequest) (CartView, error) {
	product, ok := s.store.Product(req.ProductID)
	if !ok {
		return CartView{}, fmt.Errorf("product with ID %s: %w", req.ProductID, ErrProductNotFound)
	}
	if req.Quantity < 1 {
		return CartView{}, ErrInvalidQuantity
	}
	if !product.HasColor(req.SelectedColor) {
		return CartView{}, fmt.Errorf("%w: color %q for product %s", ErrInvalidVariant, req.SelectedColor, product.ID)
	}
	if !product.HasSize(req.SelectedSize) {
		return CartView{}, fmt.Errorf("%w: size %q for product %s", ErrInvalidVariant, req.SelectedSize, product.ID)
	}

	item := models.CartItem{
		Product:       product,
		Quantity:      req.Quantity,
		SelectedColor: req.SelectedColor,
		SelectedSize:  req.SelectedSize,
	}
	// The line this add merges into counts against stock too.
	requested := req.Quantity
	for _, existing := range s.store.Cart() {
		if existing.Key() == item.Key() {
			requested += existing.Quantity
		}
	}
	if requested > product.Stock {
		return CartView{}, fmt.Errorf("%w for product %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, requested, product.Stock)
	}

	s.store.AddToCart(item)
	return s.GetCart(), nil
}

// UpdateQuantity sets the quantity of every cart entry for productID. Each
// entry is checked against the current catalog stock; a product no longer in
// the catalog is not checked.
func (s *CartService) UpdateQuantity(productID string, quantity int) (CartView, error) {
	if quantity < 1 {
		return CartView{}, ErrInvalidQuantity
	}
	if product, ok := s.store.Product(productID); ok && quantity > product.Stock {
		return CartView{}, fmt.Errorf("%w for product %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, quantity, product.Stock)
	}
	if !s.store.UpdateCartQuantity(productID, quantity) {
		return CartView{}, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
	}
	return s.GetCart(), nil
}

// RemoveItem removes every cart entry for productID.
func (s *CartService) RemoveItem(productID string) (CartView, error) {
	if !s.store.RemoveFromCart(productID) {
		return CartView{}, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
	}
	return s.GetCart(), nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart() CartView {
	s.store.ClearCart()
	return s.GetCart()
}
