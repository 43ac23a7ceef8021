package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx, tenantID := tenantCtx()

	awa := &entity.Customer{TenantID: tenantID, Name: "Awa Ndiaye", Phone: "+237690000001"}
	jean := &entity.Customer{TenantID: tenantID, Name: "Jean Mbarga", Phone: "+237677000002"}
	require.NoError(t, repo.Create(ctx, awa))
	require.NoError(t, repo.Create(ctx, jean))

	t.Run("get by phone", func(t *testing.T) {
		got, err := repo.GetByPhone(ctx, "+237677000002")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, jean.ID, got.ID)

		missing, err := repo.GetByPhone(ctx, "+237600000000")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate phone in a tenant is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Customer{TenantID: tenantID, Name: "Copie", Phone: "+237690000001"})
		assert.Error(t, err)
	})

	t.Run("search", func(t *testing.T) {
		list, total, err := repo.List(ctx, pagination.DefaultPagination(), "ndiaye")
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, awa.ID, list[0].ID)
	})
}

func TestLaundryServiceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLaundryServiceRepository(db)
	ctx, tenantID := tenantCtx()

	shirt := &entity.LaundryService{TenantID: tenantID, Name: "Chemise", Category: enum.ItemCategoryWashing, UnitPrice: decimal.NewFromInt(1500), Active: true}
	suit := &entity.LaundryService{TenantID: tenantID, Name: "Costume", Category: enum.ItemCategoryDryCleaning, UnitPrice: decimal.NewFromInt(5000), Active: true}
	require.NoError(t, repo.Create(ctx, shirt))
	require.NoError(t, repo.Create(ctx, suit))

	found, err := repo.GetByIDs(ctx, []uuid.UUID{shirt.ID, suit.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	suit.Active = false
	require.NoError(t, repo.Update(ctx, suit))

	active, total, err := repo.List(ctx, pagination.DefaultPagination(), "", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, "Chemise", active[0].Name)

	require.NoError(t, repo.Delete(ctx, shirt.ID))
	gone, err := repo.GetByID(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	live := &entity.IdempotencyKey{
		Key: "abc", UserID: userID, Endpoint: "POST /api/v1/deposits",
		RequestHash: "h1", ResponseCode: 201, ResponseBody: `{"id":"1"}`,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, live))

	// A concurrent duplicate does not replace the stored response.
	dup := *live
	dup.ID = uuid.Nil
	dup.ResponseBody = `{"id":"2"}`
	require.NoError(t, repo.Create(ctx, &dup))

	got, err := repo.GetByKey(ctx, "abc", userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"id":"1"}`, got.ResponseBody)
	assert.True(t, got.Matches("h1"))
	assert.False(t, got.Matches("h2"))

	other, err := repo.GetByKey(ctx, "abc", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "old", UserID: userID, Endpoint: "POST /api/v1/deposits",
		ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour),
	}))
	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTenantRepository_Settings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db)
	ctx := context.Background()

	tenant := &entity.Tenant{Name: "Pressing Étoile", Slug: "pressing-etoile", Settings: entity.DefaultTenantSettings()}
	require.NoError(t, repo.Create(ctx, tenant))

	exists, err := repo.SlugExists(ctx, "pressing-etoile")
	require.NoError(t, err)
	assert.True(t, exists)

	settings := tenant.Settings
	settings.DepositPrefix = "PE-"
	settings.WhatsAppEnabled = false
	require.NoError(t, repo.UpdateSettings(ctx, tenant.ID, settings))

	got, err := repo.GetBySlug(ctx, "pressing-etoile")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "PE-", got.Settings.DepositPrefix)
	assert.False(t, got.Settings.WhatsAppEnabled)
	assert.Equal(t, "XAF", got.Settings.Currency)
}
