package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port             string
	DatabaseURL      string
	RedisAddr        string
	JWTSecret        string
	JWTRefreshSecret string
	GinMode          string

	// Defaults for the settings table; rows in `settings` take precedence.
	PaymentTolerance decimal.Decimal
	TaxRate          decimal.Decimal

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string

	// OTelExporter selects the span exporter: "" disables tracing, "stdout" prints spans.
	OTelExporter string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	tolerance, err := decimal.NewFromString(getEnvOrDefault("PAYMENT_TOLERANCE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_TOLERANCE: %w", err)
	}
	taxRate, err := decimal.NewFromString(getEnvOrDefault("TAX_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		GinMode:          getEnvOrDefault("GIN_MODE", "release"),
		PaymentTolerance: tolerance,
		TaxRate:          taxRate,
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnvOrDefault("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:        getEnvOrDefault("LOG_OUTPUT", "stdout"),
		OTelExporter:     os.Getenv("OTEL_EXPORTER"),
	}, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema, including the partial unique indexes that keep
// at most one live (non-rejected) payment per bank transaction, invoice and bundle.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Member{},
		&models.Partner{},
		&models.Order{},
		&models.OrderItem{},
		&models.Invoice{},
		&models.InvoiceBundle{},
		&models.InvoiceBundleItem{},
		&models.BankTransaction{},
		&models.Payment{},
		&models.Setting{},
		&models.ReconciliationRun{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range livePaymentIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create payment index: %w", err)
		}
	}
	return nil
}

var livePaymentIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_live_bank_txn ON payments (bank_txn_id) WHERE status <> 'rejected' AND bank_txn_id IS NOT NULL AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_live_invoice ON payments (invoice_id) WHERE status <> 'rejected' AND invoice_id IS NOT NULL AND deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_live_bundle ON payments (bundle_id) WHERE status <> 'rejected' AND bundle_id IS NOT NULL AND deleted_at IS NULL`,
}

// ConnectRedis returns nil when no address is configured or the server does not answer,
// in which case caching is disabled.
func ConnectRedis(ctx context.Context, cfg *Config) *redis.Client {
	log := logger.WithComponent("redis")
	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR not set, identity cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("Could not reach redis, identity cache disabled")
		client.Close()
		return nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Connected to redis")
	return client
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
