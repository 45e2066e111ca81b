package main

import (
	"log"
	"time"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/config"
	"github.com/bazarpos/ventas-api/internal/infrastructure/database"
	"github.com/bazarpos/ventas-api/internal/infrastructure/repository"
	"github.com/bazarpos/ventas-api/internal/presentation/http/handler"
	"github.com/bazarpos/ventas-api/internal/presentation/http/routes"
	"github.com/bazarpos/ventas-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The business timezone decides when one sales day ends and the
	// next begins.
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using UTC", cfg.App.Timezone)
		loc = time.UTC
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, &cfg.App); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	dayRepo := repository.NewDayRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, saleRepo)
	productService := service.NewProductService(productRepo, saleRepo)
	customerService := service.NewCustomerService(customerRepo, saleRepo)
	dayService := service.NewDayService(dayRepo, loc)
	saleService := service.NewSaleService(transactor, saleRepo, productRepo, dayRepo, customerService, cfg.Sales.TaxRate, loc)
	reportService := service.NewReportService(dayRepo, saleRepo, loc)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Day:      handler.NewDayHandler(dayService),
		Sale:     handler.NewSaleHandler(saleService),
		Report:   handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
