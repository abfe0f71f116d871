package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Business  BusinessConfig
	Tax       TaxConfig
	Fiscal    FiscalConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// BusinessConfig holds the issuer identity stamped on every fiscal document.
type BusinessConfig struct {
	Name    string
	TaxID   string
	Regime  string
	Address string
	Phone   string
}

type TaxConfig struct {
	Rate decimal.Decimal
}

// FiscalConfig selects between simulated and live authority submission.
// In live mode BaseURL and Token are mandatory.
type FiscalConfig struct {
	Simulate bool
	BaseURL  string
	Token    string
	Timeout  time.Duration
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "factura-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "factura")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Guayaquil")
	viper.SetDefault("BUSINESS_NAME", "MI RESTAURANTE")
	viper.SetDefault("BUSINESS_TAX_ID", "9999999999999")
	viper.SetDefault("BUSINESS_REGIME", "General")
	viper.SetDefault("BUSINESS_ADDRESS", "Quito - Ecuador")
	viper.SetDefault("BUSINESS_PHONE", "0980000000")
	viper.SetDefault("TAX_RATE", "0.12")
	viper.SetDefault("FISCAL_SIMULATE", true)
	viper.SetDefault("FISCAL_PROVIDER_BASE_URL", "")
	viper.SetDefault("FISCAL_PROVIDER_TOKEN", "")
	viper.SetDefault("FISCAL_TIMEOUT_SECONDS", 15)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	taxRate, err := decimal.NewFromString(viper.GetString("TAX_RATE"))
	if err != nil {
		log.Fatalf("Invalid TAX_RATE %q: %v", viper.GetString("TAX_RATE"), err)
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Business: BusinessConfig{
			Name:    viper.GetString("BUSINESS_NAME"),
			TaxID:   viper.GetString("BUSINESS_TAX_ID"),
			Regime:  viper.GetString("BUSINESS_REGIME"),
			Address: viper.GetString("BUSINESS_ADDRESS"),
			Phone:   viper.GetString("BUSINESS_PHONE"),
		},
		Tax: TaxConfig{
			Rate: taxRate,
		},
		Fiscal: FiscalConfig{
			Simulate: viper.GetBool("FISCAL_SIMULATE"),
			BaseURL:  viper.GetString("FISCAL_PROVIDER_BASE_URL"),
			Token:    viper.GetString("FISCAL_PROVIDER_TOKEN"),
			Timeout:  time.Duration(viper.GetInt("FISCAL_TIMEOUT_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
