package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"github.com/sangkips/pressing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createOperator(t *testing.T, env *testEnv, email string, role enum.UserRole) *entity.User {
	t.Helper()
	users := NewUserService(env.users, env.agencies, zap.NewNop())
	user, err := users.CreateUser(env.ctx, &CreateUserInput{
		FirstName: "Marie",
		LastName:  "Ngo",
		Email:     email,
		Password:  "motdepasse",
		Role:      role,
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	user := createOperator(t, env, "Marie@Example.cm", enum.UserRoleManager)

	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	auth := NewAuthService(env.users, jwt, zap.NewNop())

	out, err := auth.Login(env.ctx, &LoginInput{Email: "marie@example.cm", Password: "motdepasse"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	require.NotNil(t, out.User.LastLoginAt)

	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, env.tenant.ID, claims.TenantID)
	assert.Equal(t, "manager", claims.Role)
	assert.Contains(t, claims.Permissions, entity.PermPaymentsRefund)
	assert.NotContains(t, claims.Permissions, entity.PermSettingsManage)

	refreshed, err := auth.RefreshToken(env.ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a refresh token.
	_, err = auth.RefreshToken(env.ctx, out.AccessToken)
	requireAppError(t, err, http.StatusUnauthorized)
}

func TestAuthService_LoginRejections(t *testing.T) {
	env := newTestEnv(t)
	user := createOperator(t, env, "awa@example.cm", enum.UserRoleOperator)
	auth := NewAuthService(env.users, utils.NewJWTManager("test-secret", time.Hour, time.Hour), zap.NewNop())

	_, err := auth.Login(env.ctx, &LoginInput{Email: "awa@example.cm", Password: "wrong-password"})
	requireAppError(t, err, http.StatusUnauthorized)

	_, err = auth.Login(env.ctx, &LoginInput{Email: "nobody@example.cm", Password: "motdepasse"})
	requireAppError(t, err, http.StatusUnauthorized)

	user.Active = false
	require.NoError(t, env.users.Update(env.ctx, user))
	_, err = auth.Login(env.ctx, &LoginInput{Email: "awa@example.cm", Password: "motdepasse"})
	requireAppError(t, err, http.StatusForbidden)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := createOperator(t, env, "awa@example.cm", enum.UserRoleOperator)
	auth := NewAuthService(env.users, utils.NewJWTManager("test-secret", time.Hour, time.Hour), zap.NewNop())

	err := auth.ChangePassword(env.ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "nope", NewPassword: "nouveau-secret"})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	err = auth.ChangePassword(env.ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "motdepasse", NewPassword: "court"})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	require.NoError(t, auth.ChangePassword(env.ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "motdepasse", NewPassword: "nouveau-secret"}))
	_, err = auth.Login(env.ctx, &LoginInput{Email: "awa@example.cm", Password: "nouveau-secret"})
	require.NoError(t, err)
}

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.users, env.agencies, zap.NewNop())
	admin := createOperator(t, env, "admin@example.cm", enum.UserRoleAdmin)
	operator := createOperator(t, env, "awa@example.cm", "")
	assert.Equal(t, enum.UserRoleOperator, operator.Role)

	_, err := users.CreateUser(env.ctx, &CreateUserInput{FirstName: "Awa", Email: "AWA@example.cm", Password: "motdepasse"})
	requireAppError(t, err, http.StatusConflict)

	_, err = users.CreateUser(env.ctx, &CreateUserInput{Email: "not-an-email", Password: "x", Role: "owner"})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 4)

	list, err := users.ListUsers(env.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	disabled := false
	updated, err := users.UpdateUser(env.ctx, &UpdateUserInput{ID: operator.ID, ActorID: admin.ID, Active: &disabled})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = users.UpdateUser(env.ctx, &UpdateUserInput{ID: admin.ID, ActorID: admin.ID, Active: &disabled})
	requireAppError(t, err, http.StatusBadRequest)

	unknownAgency := uuid.New()
	_, err = users.UpdateUser(env.ctx, &UpdateUserInput{ID: operator.ID, ActorID: admin.ID, AgencyID: &unknownAgency})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, err = users.UpdateUser(withTenant(uuid.New()), &UpdateUserInput{ID: operator.ID, ActorID: admin.ID, Active: &disabled})
	requireAppError(t, err, http.StatusNotFound)
}

func TestTenantService(t *testing.T) {
	env := newTestEnv(t)
	tenants := NewTenantService(env.tenants, env.agencies, zap.NewNop())

	current, err := tenants.Current(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "XAF", current.Settings.Currency)

	settings := current.Settings
	settings.Currency = "eur"
	settings.ReceiptFooter = "À bientôt"
	settings.DefaultInstallmentCount = 3
	updated, err := tenants.UpdateSettings(env.ctx, settings)
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Settings.Currency)

	reloaded, err := env.tenants.GetByID(env.ctx, env.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "À bientôt", reloaded.Settings.ReceiptFooter)
	assert.Equal(t, 3, reloaded.Settings.DefaultInstallmentCount)

	settings.Currency = "EURO"
	settings.Timezone = "Mars/Olympus"
	settings.DefaultInstallmentCount = 20
	_, err = tenants.UpdateSettings(env.ctx, settings)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 3)

	_, err = tenants.CreateAgency(env.ctx, &CreateAgencyInput{Name: "  "})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	agency, err := tenants.CreateAgency(env.ctx, &CreateAgencyInput{Name: "Akwa"})
	require.NoError(t, err)
	assert.Equal(t, env.tenant.ID, agency.TenantID)

	agencies, err := tenants.ListAgencies(env.ctx)
	require.NoError(t, err)
	assert.Len(t, agencies, 1)

	others, err := tenants.ListAgencies(withTenant(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCatalogService(t *testing.T) {
	env := newTestEnv(t)
	catalog := NewCatalogService(env.catalog, env.tenants)

	entry, err := catalog.CreateEntry(env.ctx, &CatalogEntryInput{Name: "Chemise", Category: enum.ItemCategoryWashing, UnitPrice: dec(500)})
	require.NoError(t, err)
	assert.True(t, entry.Active)

	inactive := false
	_, err = catalog.CreateEntry(env.ctx, &CatalogEntryInput{Name: "Tapis", Category: enum.ItemCategoryWashing, UnitPrice: dec(3000), Active: &inactive})
	require.NoError(t, err)

	// XAF has no minor unit.
	_, err = catalog.CreateEntry(env.ctx, &CatalogEntryInput{Name: "Cravate", Category: enum.ItemCategoryDryCleaning, UnitPrice: decimal.RequireFromString("2.5")})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "unit_price", appErr.Errors[0].Field)

	all, err := catalog.ListEntries(env.ctx, pagination.DefaultPagination(), "", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	active, err := catalog.ListEntries(env.ctx, pagination.DefaultPagination(), "", true)
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "Chemise", active.Items[0].Name)

	updated, err := catalog.UpdateEntry(env.ctx, entry.ID, &CatalogEntryInput{Name: "Chemise", Category: enum.ItemCategoryIroning, UnitPrice: dec(600)})
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(dec(600)))

	require.NoError(t, catalog.DeleteEntry(env.ctx, entry.ID))
	_, err = catalog.GetEntry(env.ctx, entry.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestCustomerService(t *testing.T) {
	env := newTestEnv(t)
	customers := NewCustomerService(env.customers, env.deposits)

	first, err := env.depositService.CreateDeposit(env.ctx, intake())
	require.NoError(t, err)
	_, err = env.depositService.CreateDeposit(env.ctx, hundred())
	require.NoError(t, err)
	other := intake()
	other.CustomerName = "Jean Mbarga"
	other.CustomerPhone = "+237690000002"
	_, err = env.depositService.CreateDeposit(env.ctx, other)
	require.NoError(t, err)

	list, err := customers.ListCustomers(env.ctx, pagination.DefaultPagination(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)

	require.NotNil(t, first.CustomerID)
	customerID := *first.CustomerID

	deposits, err := customers.ListDeposits(env.ctx, customerID, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deposits.Pagination.Total)

	email := "awa@example.cm"
	blank := " "
	_, err = customers.UpdateCustomer(env.ctx, &UpdateCustomerInput{ID: customerID, Name: &blank})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	updated, err := customers.UpdateCustomer(env.ctx, &UpdateCustomerInput{ID: customerID, Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)

	_, err = customers.GetCustomer(withTenant(uuid.New()), customerID)
	requireAppError(t, err, http.StatusNotFound)

	_, err = customers.ListCustomersWithCursor(env.ctx, &pagination.CursorParams{Cursor: "%%%", Limit: 10}, "")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestDashboardService(t *testing.T) {
	env := newTestEnv(t)
	dashboard := NewDashboardService(env.analytics, env.tenants)
	dashboard.now = func() time.Time { return day0.Add(2 * time.Hour) }

	_, err := env.depositService.CreateDeposit(env.ctx, intake())
	require.NoError(t, err)
	partial := hundred()
	partial.PaidAmount = dec(40)
	_, err = env.depositService.CreateDeposit(env.ctx, partial)
	require.NoError(t, err)

	stats, err := dashboard.GetDashboardStats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "XAF", stats.Currency)
	assert.Equal(t, int64(2), stats.ByStatus["NEW"])
	assert.Equal(t, int64(0), stats.ByStatus["DELIVERED"])
	assert.Equal(t, int64(1), stats.ByPaymentStatus["PENDING"])
	assert.Equal(t, int64(1), stats.ByPaymentStatus["PARTIAL"])
	assert.True(t, stats.OutstandingAmount.Equal(dec(98)), stats.OutstandingAmount.String())
	assert.True(t, stats.CollectedToday.Equal(dec(40)), stats.CollectedToday.String())
	assert.Equal(t, "98\u00a0FCFA", stats.Formatted.OutstandingAmount)
}
