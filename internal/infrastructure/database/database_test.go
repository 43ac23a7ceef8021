package database

import (
	"testing"

	"github.com/sangkips/pressing-api/internal/config"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))
	return db
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestBootstrap(t *testing.T) {
	db := openMemory(t)
	cfg := &config.BootstrapConfig{
		TenantName:    "Pressing Étoile",
		AdminEmail:    "Admin@Etoile.cm",
		AdminPassword: "changeme",
		AdminName:     "Marie Ngo",
	}
	receipts := &config.ReceiptConfig{DefaultCurrency: "XOF"}

	require.NoError(t, Bootstrap(db, cfg, receipts, zap.NewNop()))

	var tenant entity.Tenant
	require.NoError(t, db.First(&tenant).Error)
	assert.Equal(t, "pressing-etoile", tenant.Slug)
	assert.Equal(t, "XOF", tenant.Settings.Currency)
	assert.Equal(t, "fr-FR", tenant.Settings.Locale)

	var admin entity.User
	require.NoError(t, db.First(&admin).Error)
	assert.Equal(t, "admin@etoile.cm", admin.Email)
	assert.Equal(t, "Marie", admin.FirstName)
	assert.Equal(t, "Ngo", admin.LastName)
	assert.Equal(t, enum.UserRoleAdmin, admin.Role)
	assert.Equal(t, tenant.ID, admin.TenantID)
	assert.True(t, utils.CheckPasswordHash("changeme", admin.Password))

	// A second run finds a user and leaves the database alone.
	require.NoError(t, Bootstrap(db, cfg, receipts, zap.NewNop()))
	var tenants int64
	require.NoError(t, db.Model(&entity.Tenant{}).Count(&tenants).Error)
	assert.Equal(t, int64(1), tenants)
}

func TestBootstrap_WithoutCredentials(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Bootstrap(db, &config.BootstrapConfig{TenantName: "Pressing"}, nil, zap.NewNop()))

	var users int64
	require.NoError(t, db.Model(&entity.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
