package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Outlet    OutletConfig
	Backend   BackendConfig
	Catalog   CatalogConfig
	Scanner   ScannerConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogLevel string
}

// OutletConfig identifies the outlet this terminal engine serves and the
// header printed on its receipts.
type OutletConfig struct {
	ID             string
	StoreName      string
	Address        string
	Phone          string
	TaxID          string
	RestaurantMode bool
}

// BackendConfig points at the cloud sale/catalog API.
type BackendConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type CatalogConfig struct {
	RefreshInterval time.Duration
}

type ScannerConfig struct {
	QuietPeriod   time.Duration
	MinCodeLength int
}

type PrinterConfig struct {
	Type           string // usb, network, none
	USBPath        string
	Address        string
	KitchenAddress string
	PaperWidth     int // characters per line: 32 for 58mm, 48 for 80mm
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
	viper.SetDefault("APP_NAME", "dukapos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8090")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("OUTLET_ID", "")
	viper.SetDefault("OUTLET_STORE_NAME", "Duka POS")
	viper.SetDefault("OUTLET_ADDRESS", "")
	viper.SetDefault("OUTLET_PHONE", "")
	viper.SetDefault("OUTLET_TAX_ID", "")
	viper.SetDefault("OUTLET_RESTAURANT_MODE", false)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("BACKEND_TOKEN", "")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("CATALOG_REFRESH_SECONDS", 300)
	viper.SetDefault("SCANNER_QUIET_MS", 40)
	viper.SetDefault("SCANNER_MIN_CODE_LENGTH", 4)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_KITCHEN_ADDRESS", "")
	viper.SetDefault("PRINTER_PAPER_WIDTH", 32)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			LogLevel: viper.GetString("APP_LOG_LEVEL"),
		},
		Outlet: OutletConfig{
			ID:             viper.GetString("OUTLET_ID"),
			StoreName:      viper.GetString("OUTLET_STORE_NAME"),
			Address:        viper.GetString("OUTLET_ADDRESS"),
			Phone:          viper.GetString("OUTLET_PHONE"),
			TaxID:          viper.GetString("OUTLET_TAX_ID"),
			RestaurantMode: viper.GetBool("OUTLET_RESTAURANT_MODE"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_BASE_URL"),
			Token:   viper.GetString("BACKEND_TOKEN"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Catalog: CatalogConfig{
			RefreshInterval: time.Duration(viper.GetInt("CATALOG_REFRESH_SECONDS")) * time.Second,
		},
		Scanner: ScannerConfig{
			QuietPeriod:   time.Duration(viper.GetInt("SCANNER_QUIET_MS")) * time.Millisecond,
			MinCodeLength: viper.GetInt("SCANNER_MIN_CODE_LENGTH"),
		},
		Printer: PrinterConfig{
			Type:           viper.GetString("PRINTER_TYPE"),
			USBPath:        viper.GetString("PRINTER_USB_PATH"),
			Address:        viper.GetString("PRINTER_ADDRESS"),
			KitchenAddress: viper.GetString("PRINTER_KITCHEN_ADDRESS"),
			PaperWidth:     viper.GetInt("PRINTER_PAPER_WIDTH"),
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
