package models

// Product represents a catalog entry in the store.
// Prices are in the smallest currency unit (won).
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	OriginalPrice *int64   `json:"originalPrice,omitempty"`
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty"`
	Category      string   `json:"category"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Description   string   `json:"description,omitempty"`
	Stock         int      `json:"stock"`
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		c.OriginalPrice = &v
	}
	c.Images = cloneStrings(p.Images)
	c.Colors = cloneStrings(p.Colors)
	c.Sizes = cloneStrings(p.Sizes)
	return c
}

// HasColor reports whether color is one of the product's variants.
// A product without color variants accepts only the empty selection.
func (p Product) HasColor(color string) bool {
	return hasVariant(p.Colors, color)
}

// HasSize reports whether size is one of the product's variants.
func (p Product) HasSize(size string) bool {
	return hasVariant(p.Sizes, size)
}

func hasVariant(variants []string, v string) bool {
	if len(variants) == 0 {
		return v == ""
	}
	for _, candidate := range variants {
		if candidate == v {
			return true
		}
	}
	return false
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
