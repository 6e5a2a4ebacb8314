package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"moda/internal/models"
)

// DefaultProductImage is used when a new product comes without an image.
const DefaultProductImage = "/diverse-fashion-display.png"

// Sort orders accepted by ListProducts.
const (
	SortRecommended = "recommended"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
)

// categoryLabels maps storefront filter labels to stored categories.
var categoryLabels = map[string]string{
	"세일🔥": "세일",
}

// ProductStore is the part of the store the product service needs.
type ProductStore interface {
	Products() []models.Product
	Product(id string) (models.Product, bool)
	AddProduct(product models.Product)
	UpdateProduct(product models.Product) bool
	DeleteProduct(id string) bool
}

// ProductFilter narrows and orders a product listing.
type ProductFilter struct {
	Category string
	Sort     string
}

// ProductInput carries the admin form fields for a product.
type ProductInput struct {
	Name          string
	Price         int64
	OriginalPrice *int64
	Image         string
	Images        []string
	Category      string
	Colors        []string
	Sizes         []string
	Description   string
	Stock         int
}

// ProductService handles business logic related to products.
type ProductService struct {
	store ProductStore
	ids   *IDGenerator
}

// NewProductService creates a new ProductService.
func NewProductService(store ProductStore, ids *IDGenerator) *ProductService {
	if ids == nil {
		ids = NewIDGenerator("PROD", time.Now)
	}
	return &ProductService{
		store: store,
		ids:   ids,
	}
}

// NormalizeCategory turns a storefront filter label into a stored category.
func NormalizeCategory(label string) string {
	if c, ok := categoryLabels[label]; ok {
		return c
	}
	return label
}

// GetAllProducts lists products matching filter.
func (s *ProductService) GetAllProducts(filter ProductFilter) ([]models.Product, error) {
	products := s.store.Products()

	if filter.Category != "" {
		category := NormalizeCategory(filter.Category)
		matched := products[:0]
		for _, p := range products {
			if p.Category == category {
				matched = append(matched, p)
			}
		}
		products = matched
	}

	switch filter.Sort {
	case "", SortRecommended:
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, filter.Sort)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	p, ok := s.store.Product(id)
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return &p, nil
}

// CreateProduct adds a product with a fresh id.
func (s *ProductService) CreateProduct(in ProductInput) (*models.Product, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	p := in.toProduct(s.ids.Next())
	s.store.AddProduct(p)
	return &p, nil
}

// UpdateProduct replaces the product with the given id.
func (s *ProductService) UpdateProduct(id string, in ProductInput) (*models.Product, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	p := in.toProduct(id)
	if !s.store.UpdateProduct(p) {
		return nil, fmt.Errorf("product with ID %s not found for update: %w", id, ErrProductNotFound)
	}
	return &p, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if !s.store.DeleteProduct(id) {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrProductNotFound)
	}
	return nil
}

// check rejects blank names and negative amounts.
func (in ProductInput) check() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is blank", ErrInvalidProduct)
	}
	if in.Price < 0 || in.Stock < 0 {
		return fmt.Errorf("%w: price and stock must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (in ProductInput) toProduct(id string) models.Product {
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = DefaultProductImage
	}
	return models.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Image:         image,
		Images:        uniqueNonEmpty(in.Images),
		Category:      in.Category,
		Colors:        uniqueNonEmpty(in.Colors),
		Sizes:         uniqueNonEmpty(in.Sizes),
		Description:   in.Description,
		Stock:         in.Stock,
	}
}

// uniqueNonEmpty drops blanks and repeats, keeping first-seen order. It
// returns nil when nothing is left.
func uniqueNonEmpty(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
