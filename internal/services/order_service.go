package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"moda/internal/events"
	"moda/internal/models"
)

// EventProducer names this service in published events.
const EventProducer = "moda-shop"

// RecentOrdersLimit is how many orders the dashboard lists.
const RecentOrdersLimit = 5

// OrderStore is the part of the store the order service needs.
type OrderStore interface {
	Products() []models.Product
	Cart() []models.CartItem
	Orders() []models.Order
	Order(id string) (models.Order, bool)
	PlaceOrder(order models.Order)
	UpdateOrderStatus(orderID string, status models.OrderStatus) bool
}

// CheckoutRequest is what the customer submits at checkout.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress
	PaymentMethod   models.PaymentMethod
}

// OrderFilter narrows the admin order listing. Query matches the order id or
// the recipient name, ignoring case. Status "all" or "" matches every order.
type OrderFilter struct {
	Query  string
	Status string
}

// Dashboard summarises the shop for the admin console.
type Dashboard struct {
	TotalRevenue  int64                      `json:"totalRevenue"`
	TotalOrders   int                        `json:"totalOrders"`
	PendingOrders int                        `json:"pendingOrders"`
	TotalProducts int                        `json:"totalProducts"`
	StatusCounts  map[models.OrderStatus]int `json:"statusCounts"`
	RecentOrders  []models.Order             `json:"recentOrders"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	store     OrderStore
	shipping  ShippingPolicy
	ids       *IDGenerator
	now       func() time.Time
	publisher events.Publisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store OrderStore, shipping ShippingPolicy, ids *IDGenerator, publisher events.Publisher) *OrderService {
	if ids == nil {
		ids = NewIDGenerator("ORD", time.Now)
	}
	return &OrderService{
		store:     store,
		shipping:  shipping,
		ids:       ids,
		now:       time.Now,
		publisher: publisher,
	}
}

// WithClock overrides the clock used for order timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// GetAllOrders lists orders matching filter, most recent first.
func (s *OrderService) GetAllOrders(filter OrderFilter) ([]models.Order, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status != "" && status != "all" && !models.OrderStatus(status).Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	orders := s.store.Orders()
	matched := orders[:0]
	for _, o := range orders {
		if status != "" && status != "all" && string(o.Status) != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(o.ID), query) &&
			!strings.Contains(strings.ToLower(o.ShippingAddress.Name), query) {
			continue
		}
		matched = append(matched, o)
	}
	return matched, nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	o, ok := s.store.Order(id)
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	return &o, nil
}

// Checkout turns the current cart into a pending order and empties the cart.
// The total is computed once here and frozen into the order.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, req.PaymentMethod)
	}
	cart := s.store.Cart()
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	quote := s.shipping.Quote(cart)
	order := models.Order{
		ID:              s.ids.Next(),
		Items:           cart,
		Total:           quote.Total,
		Status:          models.StatusPending,
		CreatedAt:       s.now().UTC(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	s.store.PlaceOrder(order)
	log.Printf("Placed order %s (%d items, total %d)", order.ID, quote.ItemCount, order.Total)

	s.emit(ctx, events.EventOrderPlaced, events.OrderPlacedPayload{
		OrderID:       order.ID,
		Total:         order.Total,
		ItemCount:     quote.ItemCount,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	}, order.ID)

	return &order, nil
}

// UpdateOrderStatus moves an order to a new status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	current, ok := s.store.Order(id)
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrOrderNotFound)
	}
	if !models.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}
	if current.Status == status {
		return &current, nil
	}
	if !s.store.UpdateOrderStatus(id, status) {
		return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrOrderNotFound)
	}

	s.emit(ctx, events.EventOrderStatusChanged, events.OrderStatusChangedPayload{
		OrderID: id,
		From:    current.Status,
		To:      status,
	}, id)

	current.Status = status
	return &current, nil
}

// StatusCounts counts orders per status. Every status is present.
func (s *OrderService) StatusCounts() map[models.OrderStatus]int {
	return countStatuses(s.store.Orders())
}

// GetDashboard computes the admin dashboard figures.
func (s *OrderService) GetDashboard() Dashboard {
	orders := s.store.Orders()
	d := Dashboard{
		TotalOrders:   len(orders),
		TotalProducts: len(s.store.Products()),
		StatusCounts:  countStatuses(orders),
	}
	for _, o := range orders {
		d.TotalRevenue += o.Total
		if o.Status == models.StatusPending || o.Status == models.StatusProcessing {
			d.PendingOrders++
		}
	}
	recent := orders
	if len(recent) > RecentOrdersLimit {
		recent = recent[:RecentOrdersLimit]
	}
	d.RecentOrders = recent
	return d
}

func countStatuses(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		counts[st] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// emit publishes an event. Failures are logged and never fail the caller.
func (s *OrderService) emit(ctx context.Context, eventType string, payload any, orderID string) {
	if s.publisher == nil {
		return
	}
	if err := events.Emit(ctx, s.publisher, eventType, EventProducer, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, orderID, err)
		return
	}
	log.Printf("Successfully published %s event for order %s", eventType, orderID)
}
