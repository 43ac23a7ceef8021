package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDepositRepository(db)
	ctx, tenantID := tenantCtx()

	d := sampleDeposit(tenantID, "DEP-0001")
	require.NoError(t, repo.Create(ctx, d))
	require.NotEqual(t, uuid.Nil, d.ID)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "DEP-0001", got.DepositNumber)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(3800)))
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, enum.PaymentStatusPartial, got.PaymentStatus)
	assert.Equal(t, 1, got.Version)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Chemise", got.Items[0].Name)
	assert.Equal(t, enum.ItemCategoryDryCleaning, got.Items[1].Category)

	require.Len(t, got.Installments, 2)
	assert.Equal(t, 1, got.Installments[0].InstallmentNumber)
	assert.Equal(t, tenantID, got.Installments[1].TenantID)

	require.Len(t, got.Payments, 1)
	assert.True(t, got.Payments[0].Amount.Equal(decimal.NewFromInt(800)))

	byNumber, err := repo.GetByNumber(ctx, "dep-0001")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, d.ID, byNumber.ID)
}

func TestDepositRepository_TenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDepositRepository(db)
	ctx, tenantID := tenantCtx()

	d := sampleDeposit(tenantID, "DEP-0002")
	require.NoError(t, repo.Create(ctx, d))

	otherCtx, _ := tenantCtx()
	got, err := repo.GetByID(otherCtx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "no tenant in context must not leak rows")
}

func TestDepositRepository_UpdateStateCompareAndSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDepositRepository(db)
	ctx, tenantID := tenantCtx()

	d := sampleDeposit(tenantID, "DEP-0003")
	require.NoError(t, repo.Create(ctx, d))

	first, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)

	require.NoError(t, first.ApplyPayment(decimal.NewFromInt(1500)))
	require.NoError(t, repo.UpdateState(ctx, first))
	assert.Equal(t, 2, first.Version)

	require.NoError(t, second.ApplyPayment(decimal.NewFromInt(1000)))
	err = repo.UpdateState(ctx, second)
	assert.True(t, errors.Is(err, domainRepo.ErrOptimisticLock))

	stored, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.Equal(decimal.NewFromInt(2300)))
	assert.True(t, stored.RemainingAmount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 2, stored.Version)
}

func TestDepositRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDepositRepository(db)
	ctx, tenantID := tenantCtx()

	a := sampleDeposit(tenantID, "DEP-A")
	b := sampleDeposit(tenantID, "DEP-B")
	b.CustomerName = "Jean Mbarga"
	b.CustomerPhone = "+237677000002"
	b.Status = enum.DepositStatusReady
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	status := enum.DepositStatusReady
	tests := []struct {
		name   string
		filter domainRepo.DepositFilter
		want   []string
	}{
		{"all", domainRepo.DepositFilter{}, []string{"DEP-A", "DEP-B"}},
		{"by status", domainRepo.DepositFilter{Status: &status}, []string{"DEP-B"}},
		{"search by name", domainRepo.DepositFilter{Search: "mbarga"}, []string{"DEP-B"}},
		{"search by phone", domainRepo.DepositFilter{Search: "690000001"}, []string{"DEP-A"}},
		{"search by number", domainRepo.DepositFilter{Search: "dep-a"}, []string{"DEP-A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deposits, total, err := repo.List(ctx, &domainRepo.DepositFilterParams{
				DepositFilter: tt.filter,
				Pagination:    &pagination.PaginationParams{Page: 1, PerPage: 10},
				SortBy:        "deposit_number",
				SortOrder:     "asc",
			})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)

			numbers := make([]string, len(deposits))
			for i, d := range deposits {
				numbers[i] = d.DepositNumber
			}
			assert.Equal(t, tt.want, numbers)
		})
	}
}

func TestInstallmentRepository_MarkPaidOnce(t *testing.T) {
	db := setupTestDB(t)
	deposits := NewDepositRepository(db)
	installments := NewInstallmentRepository(db)
	ctx, tenantID := tenantCtx()

	d := sampleDeposit(tenantID, "DEP-0004")
	require.NoError(t, deposits.Create(ctx, d))

	list, err := installments.ListByDeposit(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	inst := list[0]
	require.NoError(t, inst.MarkPaid(enum.PaymentMethodMobileMoney, testDay, ""))
	require.NoError(t, installments.MarkPaid(ctx, &inst))

	again := list[0]
	again.Status = enum.InstallmentStatusPaid
	assert.ErrorIs(t, installments.MarkPaid(ctx, &again), domainRepo.ErrOptimisticLock)

	reloaded, err := installments.ListByDeposit(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InstallmentStatusPaid, reloaded[0].Status)
	require.NotNil(t, reloaded[0].PaymentMethod)
	assert.Equal(t, enum.PaymentMethodMobileMoney, *reloaded[0].PaymentMethod)
	assert.Equal(t, enum.InstallmentStatusPending, reloaded[1].Status)
}

func TestInstallmentRepository_ListOverdue(t *testing.T) {
	db := setupTestDB(t)
	deposits := NewDepositRepository(db)
	installments := NewInstallmentRepository(db)
	ctx, tenantID := tenantCtx()

	open := sampleDeposit(tenantID, "DEP-OPEN")
	require.NoError(t, deposits.Create(ctx, open))

	cancelled := sampleDeposit(tenantID, "DEP-CANCELLED")
	cancelled.Status = enum.DepositStatusCancelled
	require.NoError(t, deposits.Create(ctx, cancelled))

	asOf := testDay.AddDate(0, 0, 10)
	list, total, err := installments.ListOverdue(ctx, asOf, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].DepositID)
	require.NotNil(t, list[0].Deposit)
	assert.Equal(t, "DEP-OPEN", list[0].Deposit.DepositNumber)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	repo := NewDepositRepository(db)
	payments := NewPaymentRepository(db)
	ctx, tenantID := tenantCtx()

	d := sampleDeposit(tenantID, "DEP-0005")
	boom := errors.New("boom")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, d); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	rows, err := payments.ListByDeposit(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDispatchLogRepository_Latest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDispatchLogRepository(db)
	ctx, tenantID := tenantCtx()
	depositID := uuid.New()

	none, err := repo.Latest(ctx, depositID)
	require.NoError(t, err)
	assert.Nil(t, none)

	failed := &entity.DispatchLog{
		TenantID: tenantID, DepositID: depositID, ReceiptType: enum.ReceiptTypeDeposit,
		Channel: enum.DispatchChannelWhatsApp, Recipient: "+237690000001", Status: enum.DispatchStatusError,
		AttemptedByID: uuid.New(), CreatedAt: testDay,
	}
	ok := &entity.DispatchLog{
		TenantID: tenantID, DepositID: depositID, ReceiptType: enum.ReceiptTypeDeposit,
		Channel: enum.DispatchChannelWhatsApp, Recipient: "+237690000001", Status: enum.DispatchStatusSuccess,
		AttemptedByID: uuid.New(), CreatedAt: testDay.Add(time.Minute),
		Metadata: map[string]interface{}{"message_id": "wamid.1"},
	}
	require.NoError(t, repo.Create(ctx, failed))
	require.NoError(t, repo.Create(ctx, ok))

	latest, err := repo.Latest(ctx, depositID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, enum.DispatchStatusSuccess, latest.Status)
	assert.Equal(t, "wamid.1", latest.Metadata["message_id"])
}
