package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"moda/internal/services"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

type addToCartRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Patch("/:productId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:productId", h.HandleRemoveItem)
}

// HandleGetCart returns the cart with subtotal, shipping and total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.GetCart())
}

// HandleAddToCart adds a product variant to the cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	view, err := h.service.AddToCart(services.AddToCartRequest{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedColor: req.SelectedColor,
		SelectedSize:  req.SelectedSize,
	})
	if err != nil {
		return cartError(c, req.ProductID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateQuantity sets the quantity of a product in the cart.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	productID := c.Params("productId")
	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity update body for %s: %v", productID, err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	view, err := h.service.UpdateQuantity(productID, req.Quantity)
	if err != nil {
		return cartError(c, productID, err)
	}
	return c.JSON(view)
}

// HandleRemoveItem removes every variant of a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID := c.Params("productId")
	view, err := h.service.RemoveItem(productID)
	if err != nil {
		return cartError(c, productID, err)
	}
	return c.JSON(view)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	return c.JSON(h.service.ClearCart())
}

func cartError(c *fiber.Ctx, productID string, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", productID),
		})
	case errors.Is(err, services.ErrCartItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product %s is not in the cart", productID),
		})
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidVariant):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart update rejected",
			"error":   err.Error(),
		})
	}
	log.Printf("Error updating cart for product %s: %v", productID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not update cart",
		"error":   err.Error(),
	})
}
