package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"moda/internal/config"
	"moda/internal/events"
	"moda/internal/handlers"
	"moda/internal/services"
	"moda/internal/storage"
	"moda/internal/store"
	"moda/pkg/kafka"
	"moda/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Storage slot ---
	slot, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer slot.Close()

	shop := store.New(slot, store.WithKey(cfg.StorageKey))
	unsubscribe := shop.Subscribe(logChanges)
	defer unsubscribe()

	// --- Event publisher ---
	var publisher events.Publisher
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeEvents(logEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	case config.EventsKafka:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	}

	app := NewApp(cfg, shop, publisher)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (storage: %s, events: %s)", cfg.AppPort, cfg.Storage.Driver, cfg.EventsDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires services and handlers around shop. publisher may be nil.
func NewApp(cfg config.Config, shop *store.Store, publisher events.Publisher) *fiber.App {
	// --- Initialize Services ---
	productService := services.NewProductService(shop, nil)
	cartService := services.NewCartService(shop, cfg.Shipping)
	orderService := services.NewOrderService(shop, cfg.Shipping, nil, publisher)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	admin := apiV1.Group("/admin")
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"storage": cfg.Storage.Driver,
			"events":  cfg.EventsDriver,
		})
	})

	return app
}

// logChanges reports every committed store mutation.
func logChanges(change store.Change) {
	log.Printf("State changed: %s (products=%d cart=%d orders=%d)",
		change.Collections, len(change.State.Products), len(change.State.Cart), len(change.State.Orders))
}

// logEvent is the RabbitMQ consumer handler. It rejects bodies that are not
// shop event envelopes.
func logEvent(msg amqp.Delivery) error {
	env, err := events.Decode(msg.Body)
	if err != nil {
		return fmt.Errorf("message %d: %w", msg.DeliveryTag, err)
	}
	log.Printf("Received %s event %s (v%d) from %s", env.EventType, env.EventID, env.EventVersion, env.Producer)
	return nil
}
