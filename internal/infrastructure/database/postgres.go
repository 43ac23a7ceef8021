package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/pressing-api/internal/config"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/infrastructure/logger"
	"github.com/sangkips/pressing-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "postgres":
		return NewPostgresDB(cfg, log)
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig(cfg *config.DatabaseConfig, log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel), cfg.SlowThreshold),
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(cfg, log))
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

	log.Info("Connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// NewSQLiteDB opens a SQLite database file, or an in-memory one for ":memory:".
// SQLite allows a single writer, so the pool is limited to one connection.
func NewSQLiteDB(path string, cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Info("Opened SQLite database", zap.String("path", path))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	err := db.AutoMigrate(
		// Tenancy and operators
		&entity.Tenant{},
		&entity.Agency{},
		&entity.User{},

		// Customers and catalog
		&entity.Customer{},
		&entity.LaundryService{},

		// Deposits
		&entity.Deposit{},
		&entity.DepositItem{},
		&entity.Installment{},
		&entity.Payment{},
		&entity.DispatchLog{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}

// Bootstrap creates the first tenant and its administrator when the database has no user.
// It is a no-op on a populated database or without ADMIN_EMAIL / ADMIN_PASSWORD.
func Bootstrap(db *gorm.DB, cfg *config.BootstrapConfig, receipts *config.ReceiptConfig, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var users int64
	if err := db.Model(&entity.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	settings := entity.DefaultTenantSettings()
	if receipts != nil {
		if receipts.DefaultCurrency != "" {
			settings.Currency = receipts.DefaultCurrency
		}
		if receipts.DefaultLocale != "" {
			settings.Locale = receipts.DefaultLocale
		}
		if receipts.DefaultTimezone != "" {
			settings.Timezone = receipts.DefaultTimezone
		}
	}

	name := cfg.AdminName
	if name == "" {
		name = "Admin"
	}
	firstName, lastName, _ := strings.Cut(name, " ")

	return db.Transaction(func(tx *gorm.DB) error {
		tenant := &entity.Tenant{
			Name:     cfg.TenantName,
			Slug:     utils.Slugify(cfg.TenantName),
			Settings: settings,
		}
		if tenant.Slug == "" {
			return errors.New("bootstrap tenant name is empty")
		}
		if err := tx.Create(tenant).Error; err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		admin := &entity.User{
			TenantID:  tenant.ID,
			FirstName: firstName,
			LastName:  lastName,
			Email:     strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
			Password:  hashed,
			Role:      enum.UserRoleAdmin,
			Active:    true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Info("Bootstrap tenant created",
			zap.String("tenant", tenant.Slug),
			zap.String("admin_email", admin.Email),
		)
		return nil
	})
}
