package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"checkout-wizard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Coupon   CouponConfig
	Kafka    KafkaConfig
	Address  AddressConfig
	Payment  PaymentConfig
	Session  SessionConfig
	Checkout CheckoutConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	Migrate         bool
}

// RedisConfig holds the Redis connection used by the address cache.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for coupon files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "coupons/")
}

// CouponConfig holds the coupon catalogue configuration.
type CouponConfig struct {
	Files              []string
	EnforceMinPurchase bool
}

// KafkaConfig holds the order event publisher configuration.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// AddressConfig holds the postal code lookup configuration.
type AddressConfig struct {
	BaseURL           string
	Timeout           time.Duration
	CacheTTL          time.Duration
	AutofillOverwrite bool
}

// PaymentConfig holds the simulated payment processor configuration.
type PaymentConfig struct {
	DeclineRate float64
	Delay       time.Duration
}

// SessionConfig holds checkout session lifetime configuration.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// CheckoutConfig holds the checkout feature switches.
type CheckoutConfig struct {
	CouponEnabled       bool
	ShippingEnabled     bool
	InstallmentsEnabled bool
	PaymentMethods      []model.PaymentMethod
	MaxInstallments     int
	MinInstallmentValue float64
	PixDiscountEnabled  bool
	PixDiscountPercent  float64
	DefaultLocale       string
	DefaultCartID       string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "checkout"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			Migrate:         getEnvAsBool("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "coupons/"),
		},
		Coupon: CouponConfig{
			Files:              getEnvAsList("COUPON_FILES", nil),
			EnforceMinPurchase: getEnvAsBool("COUPON_ENFORCE_MIN_PURCHASE", false),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "checkout.orders"),
		},
		Address: AddressConfig{
			BaseURL:           getEnv("ADDRESS_BASE_URL", "https://viacep.com.br"),
			Timeout:           getEnvAsDuration("ADDRESS_TIMEOUT", 5*time.Second),
			CacheTTL:          getEnvAsDuration("ADDRESS_CACHE_TTL", 24*time.Hour),
			AutofillOverwrite: getEnvAsBool("ADDRESS_AUTOFILL_OVERWRITE", false),
		},
		Payment: PaymentConfig{
			DeclineRate: getEnvAsFloat("PAYMENT_DECLINE_RATE", 0.1),
			Delay:       getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),
		},
		Session: SessionConfig{
			IdleTimeout:   getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Checkout: CheckoutConfig{
			CouponEnabled:       getEnvAsBool("FEATURE_COUPON", true),
			ShippingEnabled:     getEnvAsBool("FEATURE_SHIPPING", true),
			InstallmentsEnabled: getEnvAsBool("FEATURE_INSTALLMENTS", true),
			PaymentMethods:      parsePaymentMethods(getEnvAsList("PAYMENT_METHODS", []string{"credit", "debit", "pix", "boleto"})),
			MaxInstallments:     getEnvAsInt("MAX_INSTALLMENTS", 12),
			MinInstallmentValue: getEnvAsFloat("MIN_INSTALLMENT_VALUE", 50),
			PixDiscountEnabled:  getEnvAsBool("PIX_DISCOUNT_ENABLED", true),
			PixDiscountPercent:  getEnvAsFloat("PIX_DISCOUNT_PERCENT", 10),
			DefaultLocale:       getEnv("DEFAULT_LOCALE", "pt"),
			DefaultCartID:       getEnv("DEFAULT_CART_ID", "demo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka topic is required when kafka is enabled")
		}
	}

	if c.Payment.DeclineRate < 0 || c.Payment.DeclineRate > 1 {
		return fmt.Errorf("payment decline rate must be between 0 and 1: %v", c.Payment.DeclineRate)
	}

	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session idle timeout must be positive")
	}

	return c.Checkout.validate()
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

func (c *CheckoutConfig) validate() error {
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("at least one payment method must be enabled")
	}
	for _, m := range c.PaymentMethods {
		if !m.Valid() {
			return fmt.Errorf("unknown payment method: %s", m)
		}
	}

	if c.MaxInstallments < 1 {
		return fmt.Errorf("max installments must be at least 1")
	}

	if c.MinInstallmentValue < 0 {
		return fmt.Errorf("min installment value cannot be negative")
	}

	if c.PixDiscountPercent < 0 || c.PixDiscountPercent > 100 {
		return fmt.Errorf("pix discount percent must be between 0 and 100: %v", c.PixDiscountPercent)
	}

	if c.DefaultLocale != "pt" && c.DefaultLocale != "en" {
		return fmt.Errorf("invalid default locale: %s (must be pt or en)", c.DefaultLocale)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func parsePaymentMethods(values []string) []model.PaymentMethod {
	methods := make([]model.PaymentMethod, 0, len(values))
	for _, v := range values {
		methods = append(methods, model.PaymentMethod(strings.ToLower(v)))
	}
	return methods
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration ("30s", "5m") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma-separated environment variable or returns a default value.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
