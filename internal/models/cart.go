package models

// CartItem is a product snapshot plus purchase intent. The product is an owned
// copy captured when the item was added, not a live reference.
type CartItem struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedColor string  `json:"selectedColor,omitempty"`
	SelectedSize  string  `json:"selectedSize,omitempty"`
}

// CartKey identifies a cart entry for merging.
type CartKey struct {
	ProductID string
	Color     string
	Size      string
}

// Key returns the merge identity of the item.
func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.Product.ID, Color: i.SelectedColor, Size: i.SelectedSize}
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// Clone returns a deep copy of the item.
func (i CartItem) Clone() CartItem {
	c := i
	c.Product = i.Product.Clone()
	return c
}

// CloneCart deep copies a slice of cart items. A nil slice stays nil.
func CloneCart(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
