package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"moda/internal/services"
)

// ProductHandler handles HTTP requests for the catalog and its admin pages.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// productRequest is the admin product form.
type productRequest struct {
	Name          string   `json:"name" validate:"required,notblank,max=200"`
	Price         int64    `json:"price" validate:"gt=0"`
	OriginalPrice *int64   `json:"originalPrice" validate:"omitempty,gt=0"`
	Image         string   `json:"image" validate:"omitempty,max=500"`
	Images        []string `json:"images" validate:"omitempty,dive,max=500"`
	Category      string   `json:"category" validate:"required,notblank"`
	Colors        []string `json:"colors" validate:"omitempty,dive,max=50"`
	Sizes         []string `json:"sizes" validate:"omitempty,dive,max=20"`
	Description   string   `json:"description" validate:"omitempty,max=2000"`
	Stock         int      `json:"stock" validate:"gte=0"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:          r.Name,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Image:         r.Image,
		Images:        r.Images,
		Category:      r.Category,
		Colors:        r.Colors,
		Sizes:         r.Sizes,
		Description:   r.Description,
		Stock:         r.Stock,
	}
}

// RegisterRoutes registers the storefront product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterAdminRoutes registers the product management routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/products")
	adminRoutes.Get("/", h.HandleGetProducts)
	adminRoutes.Post("/", h.HandleCreateProduct)
	adminRoutes.Put("/:id", h.HandleUpdateProduct)
	adminRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products, optionally filtered by category and sorted.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(services.ProductFilter{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidSort) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid sort order",
				"error":   err.Error(),
			})
		}
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		return productError(c, productID, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.CreateProduct(req.input())
	if err != nil {
		return productError(c, "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product update body for %s: %v", productID, err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.UpdateProduct(productID, req.input())
	if err != nil {
		return productError(c, productID, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		return productError(c, productID, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}

func productError(c *fiber.Ctx, productID string, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", productID),
		})
	case errors.Is(err, services.ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	log.Printf("Error handling product %s: %v", productID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process product",
		"error":   err.Error(),
	})
}
