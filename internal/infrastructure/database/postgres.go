package database

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.Product{},

		// Party entities
		&entity.Customer{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleLine{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the catalog with a starter menu so a fresh
// install can ring up sales immediately. Existing codes are left alone.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	stock := func(n int) *int { return &n }

	products := []entity.Product{
		{Code: "ALM-001", Name: "Almuerzo del día", Price: decimal.NewFromFloat(3.50), Stock: stock(100), TaxApplicable: false},
		{Code: "DES-001", Name: "Desayuno completo", Price: decimal.NewFromFloat(2.75), Stock: stock(100), TaxApplicable: false},
		{Code: "PLA-001", Name: "Seco de pollo", Price: decimal.NewFromFloat(5.00), Stock: stock(50), TaxApplicable: true},
		{Code: "PLA-002", Name: "Encebollado", Price: decimal.NewFromFloat(4.50), Stock: stock(50), TaxApplicable: true},
		{Code: "BEB-001", Name: "Jugo natural", Price: decimal.NewFromFloat(1.50), Stock: stock(200), TaxApplicable: true},
		{Code: "BEB-002", Name: "Gaseosa", Price: decimal.NewFromFloat(1.00), Stock: stock(200), TaxApplicable: true},
		{Code: "POS-001", Name: "Postre de la casa", Price: decimal.NewFromFloat(2.00), Stock: stock(40), TaxApplicable: true},
	}

	for i := range products {
		var existing entity.Product
		if err := db.Where("code = ?", products[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Printf("Warning: failed to seed product %s: %v", products[i].Code, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
