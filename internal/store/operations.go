package store

import "moda/internal/models"

// AddToCart merges item into the cart. An entry with the same product, color
// and size gets its quantity increased; otherwise the item is appended.
// Stock is not checked here.
func (s *Store) AddToCart(item models.CartItem) {
	item = item.Clone()
	s.mutate(func(st *models.State) Collection {
		key := item.Key()
		for i := range st.Cart {
			if st.Cart[i].Key() == key {
				st.Cart[i].Quantity += item.Quantity
				return Cart
			}
		}
		st.Cart = append(st.Cart, item)
		return Cart
	})
}

// RemoveFromCart removes every cart entry for productID, whatever its color or
// size. It reports whether anything was removed.
func (s *Store) RemoveFromCart(productID string) bool {
	return s.mutate(func(st *models.State) Collection {
		kept := st.Cart[:0]
		for _, item := range st.Cart {
			if item.Product.ID != productID {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(st.Cart) {
			return 0
		}
		st.Cart = kept
		return Cart
	}) != 0
}

// UpdateCartQuantity sets quantity on every cart entry for productID.
// The value is not clamped; callers keep it at least 1.
func (s *Store) UpdateCartQuantity(productID string, quantity int) bool {
	return s.mutate(func(st *models.State) Collection {
		found := false
		for i := range st.Cart {
			if st.Cart[i].Product.ID == productID {
				st.Cart[i].Quantity = quantity
				found = true
			}
		}
		if !found {
			return 0
		}
		return Cart
	}) != 0
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mutate(func(st *models.State) Collection {
		st.Cart = []models.CartItem{}
		return Cart
	})
}

// AddOrder puts order at the front of the orders, most recent first.
func (s *Store) AddOrder(order models.Order) {
	order = order.Clone()
	s.mutate(func(st *models.State) Collection {
		st.Orders = prependOrder(st.Orders, order)
		return Orders
	})
}

// PlaceOrder records order and empties the cart as one mutation, so no
// listener or persisted snapshot ever sees one without the other.
func (s *Store) PlaceOrder(order models.Order) {
	order = order.Clone()
	s.mutate(func(st *models.State) Collection {
		st.Orders = prependOrder(st.Orders, order)
		st.Cart = []models.CartItem{}
		return Orders | Cart
	})
}

// UpdateOrderStatus replaces the status of the order with orderID. An unknown
// id leaves the state untouched and returns false.
func (s *Store) UpdateOrderStatus(orderID string, status models.OrderStatus) bool {
	return s.mutate(func(st *models.State) Collection {
		for i := range st.Orders {
			if st.Orders[i].ID == orderID {
				st.Orders[i].Status = status
				return Orders
			}
		}
		return 0
	}) != 0
}

// AddProduct appends product to the catalog. Ids are not checked for
// uniqueness.
func (s *Store) AddProduct(product models.Product) {
	product = product.Clone()
	s.mutate(func(st *models.State) Collection {
		st.Products = append(st.Products, product)
		return Products
	})
}

// UpdateProduct replaces the product with the same id.
func (s *Store) UpdateProduct(product models.Product) bool {
	product = product.Clone()
	return s.mutate(func(st *models.State) Collection {
		found := false
		for i := range st.Products {
			if st.Products[i].ID == product.ID {
				st.Products[i] = product
				found = true
			}
		}
		if !found {
			return 0
		}
		return Products
	}) != 0
}

// DeleteProduct removes the product with productID from the catalog.
func (s *Store) DeleteProduct(productID string) bool {
	return s.mutate(func(st *models.State) Collection {
		kept := st.Products[:0]
		for _, p := range st.Products {
			if p.ID != productID {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(st.Products) {
			return 0
		}
		st.Products = kept
		return Products
	}) != 0
}

func prependOrder(orders []models.Order, order models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders)+1)
	out = append(out, order)
	return append(out, orders...)
}
