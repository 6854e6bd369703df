package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads configuration from environment variables with defaults
	// suitable for local development.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "katalog.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publication
	viper.SetDefault("VIEWS_DIR", "./views")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Initialize Repository ---
	productRepo, err := newProductRepository()
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Product lifecycle events are only published when a broker URL is
	// configured; the catalog works fine without one.
	var eventPublisher services.EventPublisher
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		eventPublisher = mqClient

		// Consume product events so catalog changes show up in the log even
		// when no downstream consumer is attached yet.
		go func() {
			log.Println("Starting RabbitMQ consumer for product events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received product event %s (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL is not set. Product events are disabled.")
	}

	// --- Initialize Service and Handler ---
	productService := services.NewProductService(productRepo, eventPublisher)
	productHandler := handlers.NewProductHandler(productService)

	// --- Initialize Fiber App with server-rendered views ---
	engine := html.New(viper.GetString("VIEWS_DIR"), ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
	})

	// --- Middleware ---
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:requestID}\n",
	}))

	// --- Routes ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products", fiber.StatusSeeOther)
	})
	productHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newProductRepository builds the product repository selected by
// DATABASE_DRIVER: a GORM store over SQLite or PostgreSQL, or the in-memory
// repository for throwaway runs.
func newProductRepository() (repositories.ProductRepository, error) {
	driver := viper.GetString("DATABASE_DRIVER")
	dsn := viper.GetString("DATABASE_DSN")

	var dialector gorm.Dialector
	switch driver {
	case "memory":
		log.Println("Using in-memory product repository. Data will not survive restarts.")
		repo := repositories.NewMemoryProductRepository()
		seedProducts(repo)
		return repo, nil
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		log.Printf("Unknown DATABASE_DRIVER %q, falling back to sqlite", driver)
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, err
	}
	return repositories.NewGORMProductRepository(db), nil
}

// seedProducts populates the in-memory repository with some initial data so
// the catalog is not empty on a throwaway run.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{Name: "Laptop", Price: 1200.00},
		{Name: "Keyboard", Price: 75.00},
		{Name: "Mouse", Price: 25.00},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
		}
	}
}
