package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	WhatsApp  WhatsAppConfig
	Redis     RedisConfig
	Printer   PrinterConfig
	Receipt   ReceiptConfig
	Bootstrap BootstrapConfig

	// Warnings collects problems met while loading, logged once the logger exists.
	Warnings []string
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". SQLite is meant for local runs.
	Driver        string
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	Timezone      string
	SQLitePath    string
	LogLevel      string
	SlowThreshold time.Duration
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
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

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type WhatsAppConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Sender       string
	Timeout      time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	StreamMaxLen int64
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type ReceiptConfig struct {
	DefaultCurrency string
	DefaultLocale   string
	DefaultTimezone string
	// NumberNode is the snowflake node id of this instance, 0-1023.
	NumberNode int64
}

// BootstrapConfig describes the first tenant and administrator created on an empty database.
type BootstrapConfig struct {
	TenantName    string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() *Config {
	cfg := &Config{}

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		cfg.Warnings = append(cfg.Warnings, ".env file not found, using environment variables: "+err.Error())
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pressing-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pressing")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Douala")
	viper.SetDefault("DB_SQLITE_PATH", "pressing.db")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("DB_SLOW_THRESHOLD_MS", 200)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM_NAME", "Pressing")
	viper.SetDefault("WHATSAPP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_STREAM_MAX_LEN", 100000)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("RECEIPT_DEFAULT_CURRENCY", "XAF")
	viper.SetDefault("RECEIPT_DEFAULT_LOCALE", "fr-FR")
	viper.SetDefault("RECEIPT_DEFAULT_TIMEZONE", "Africa/Douala")
	viper.SetDefault("RECEIPT_NUMBER_NODE", 1)
	viper.SetDefault("BOOTSTRAP_TENANT_NAME", "Pressing")

	cfg.App = AppConfig{
		Name:  viper.GetString("APP_NAME"),
		Env:   viper.GetString("APP_ENV"),
		Port:  viper.GetString("APP_PORT"),
		Debug: viper.GetBool("APP_DEBUG"),
	}
	cfg.Log = LogConfig{
		Level:  viper.GetString("LOG_LEVEL"),
		Format: viper.GetString("LOG_FORMAT"),
		Output: viper.GetString("LOG_OUTPUT"),
	}
	cfg.Database = DatabaseConfig{
		Driver:        strings.ToLower(viper.GetString("DB_DRIVER")),
		Host:          viper.GetString("DB_HOST"),
		Port:          viper.GetString("DB_PORT"),
		Name:          viper.GetString("DB_NAME"),
		User:          viper.GetString("DB_USER"),
		Password:      viper.GetString("DB_PASSWORD"),
		SSLMode:       viper.GetString("DB_SSL_MODE"),
		Timezone:      viper.GetString("DB_TIMEZONE"),
		SQLitePath:    viper.GetString("DB_SQLITE_PATH"),
		LogLevel:      viper.GetString("DB_LOG_LEVEL"),
		SlowThreshold: time.Duration(viper.GetInt("DB_SLOW_THRESHOLD_MS")) * time.Millisecond,
	}
	cfg.JWT = JWTConfig{
		Secret:             viper.GetString("JWT_SECRET"),
		ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
		AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
	}
	cfg.RateLimit = RateLimitConfig{
		Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
		Duration: viper.GetInt("RATE_LIMIT_DURATION"),
	}
	cfg.Email = EmailConfig{
		SMTPHost:     viper.GetString("SMTP_HOST"),
		SMTPPort:     viper.GetInt("SMTP_PORT"),
		SMTPUsername: viper.GetString("SMTP_USERNAME"),
		SMTPPassword: viper.GetString("SMTP_PASSWORD"),
		FromName:     viper.GetString("MAIL_FROM_NAME"),
		FromEmail:    viper.GetString("MAIL_FROM_ADDRESS"),
	}
	cfg.WhatsApp = WhatsAppConfig{
		BaseURL:      viper.GetString("WHATSAPP_BASE_URL"),
		ClientID:     viper.GetString("WHATSAPP_CLIENT_ID"),
		ClientSecret: viper.GetString("WHATSAPP_CLIENT_SECRET"),
		TokenURL:     viper.GetString("WHATSAPP_TOKEN_URL"),
		Sender:       viper.GetString("WHATSAPP_SENDER"),
		Timeout:      time.Duration(viper.GetInt("WHATSAPP_TIMEOUT_SECONDS")) * time.Second,
	}
	cfg.Redis = RedisConfig{
		Enabled:      viper.GetBool("REDIS_ENABLED"),
		Addr:         viper.GetString("REDIS_ADDR"),
		Password:     viper.GetString("REDIS_PASSWORD"),
		DB:           viper.GetInt("REDIS_DB"),
		StreamMaxLen: viper.GetInt64("REDIS_STREAM_MAX_LEN"),
	}
	cfg.Printer = PrinterConfig{
		Type:      viper.GetString("PRINTER_TYPE"),
		USBPath:   viper.GetString("PRINTER_USB_PATH"),
		Address:   viper.GetString("PRINTER_ADDRESS"),
		CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
	}
	cfg.Receipt = ReceiptConfig{
		DefaultCurrency: viper.GetString("RECEIPT_DEFAULT_CURRENCY"),
		DefaultLocale:   viper.GetString("RECEIPT_DEFAULT_LOCALE"),
		DefaultTimezone: viper.GetString("RECEIPT_DEFAULT_TIMEZONE"),
		NumberNode:      viper.GetInt64("RECEIPT_NUMBER_NODE"),
	}
	cfg.Bootstrap = BootstrapConfig{
		TenantName:    viper.GetString("BOOTSTRAP_TENANT_NAME"),
		AdminEmail:    viper.GetString("ADMIN_EMAIL"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		AdminName:     viper.GetString("ADMIN_NAME"),
	}

	return cfg
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

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
