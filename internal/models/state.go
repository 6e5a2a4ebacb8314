package models

// State is the complete shop state owned by the store.
type State struct {
	Products []Product  `json:"products"`
	Cart     []CartItem `json:"cart"`
	Orders   []Order    `json:"orders"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Products: CloneProducts(s.Products),
		Cart:     CloneCart(s.Cart),
		Orders:   CloneOrders(s.Orders),
	}
}

// CloneProducts deep copies a slice of products.
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// CloneOrders deep copies a slice of orders.
func CloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
