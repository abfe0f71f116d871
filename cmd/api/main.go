package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tecnano/factura-api/internal/application/service"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/fiscal"
	"github.com/tecnano/factura-api/internal/infrastructure/database"
	"github.com/tecnano/factura-api/internal/infrastructure/repository"
	"github.com/tecnano/factura-api/internal/infrastructure/sri"
	"github.com/tecnano/factura-api/internal/presentation/http/handler"
	"github.com/tecnano/factura-api/internal/presentation/http/routes"
	"github.com/tecnano/factura-api/pkg/printer"
	"github.com/tecnano/factura-api/pkg/receipt"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
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
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize repositories
	saleRepo := repository.NewSaleRepository(db)
	saleLineRepo := repository.NewSaleLineRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize fiscal pipeline
	composer := fiscal.NewComposer(cfg.Business)
	authorityClient := sri.New(cfg.Fiscal, cfg.Business)
	renderer := receipt.NewRenderer(cfg.Business)
	if cfg.Fiscal.Simulate {
		log.Printf("Fiscal submission running in SIMULATION mode")
	}

	// Initialize services
	calculator := service.NewTaxCalculator(cfg.Tax.Rate)
	fiscalService := service.NewFiscalService(saleRepo, composer, authorityClient, renderer)
	ticketService := service.NewTicketService(thermalPrinter)
	saleService := service.NewSaleService(saleRepo, saleLineRepo, productRepo, customerRepo, calculator, fiscalService, ticketService)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Sale:     handler.NewSaleHandler(saleService, fiscalService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
