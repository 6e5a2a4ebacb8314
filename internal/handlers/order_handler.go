package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"moda/internal/models"
	"moda/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

type addressRequest struct {
	Name          string `json:"name" validate:"required,notblank"`
	Phone         string `json:"phone" validate:"required,notblank"`
	ZipCode       string `json:"zipCode" validate:"required,notblank"`
	Address       string `json:"address" validate:"required,notblank"`
	DetailAddress string `json:"detailAddress"`
}

type checkoutRequest struct {
	ShippingAddress addressRequest `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod" validate:"required,oneof=card bank kakao naver"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// RegisterRoutes registers the customer order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// RegisterAdminRoutes registers the order management and dashboard routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleGetDashboard)
	adminRoutes := router.Group("/orders")
	adminRoutes.Get("/", h.HandleGetOrders)
	adminRoutes.Get("/:id", h.HandleGetOrderByID)
	adminRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists orders, optionally searched by id or recipient and
// filtered by status.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(services.OrderFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status filter",
				"error":   err.Error(),
			})
		}
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return orderError(c, orderID, err)
	}
	return c.JSON(order)
}

// HandleCheckout turns the cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.Checkout(c.UserContext(), services.CheckoutRequest{
		ShippingAddress: models.ShippingAddress{
			Name:          req.ShippingAddress.Name,
			Phone:         req.ShippingAddress.Phone,
			ZipCode:       req.ShippingAddress.ZipCode,
			Address:       req.ShippingAddress.Address,
			DetailAddress: req.ShippingAddress.DetailAddress,
		},
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) || errors.Is(err, services.ErrInvalidPayment) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Checkout failed",
				"error":   err.Error(),
			})
		}
		log.Printf("Error creating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, models.OrderStatus(req.Status))
	if err != nil {
		return orderError(c, orderID, err)
	}
	return c.JSON(order)
}

// HandleGetDashboard returns the admin dashboard figures.
func (h *OrderHandler) HandleGetDashboard(c *fiber.Ctx) error {
	return c.JSON(h.service.GetDashboard())
}

func orderError(c *fiber.Ctx, orderID string, err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Order update failed: %v", err),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Order update failed: %v", err),
		})
	}
	log.Printf("Error handling order %s: %v", orderID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process order",
		"error":   err.Error(),
	})
}
