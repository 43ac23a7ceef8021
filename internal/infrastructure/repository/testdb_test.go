package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Tenant{},
		&entity.Agency{},
		&entity.User{},
		&entity.Customer{},
		&entity.LaundryService{},
		&entity.Deposit{},
		&entity.DepositItem{},
		&entity.Installment{},
		&entity.Payment{},
		&entity.DispatchLog{},
		&entity.IdempotencyKey{},
	))
	return db
}

func tenantCtx() (context.Context, uuid.UUID) {
	tenantID := uuid.New()
	return WithTenant(context.Background(), tenantID), tenantID
}

var testDay = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func sampleDeposit(tenantID uuid.UUID, number string) *entity.Deposit {
	d := &entity.Deposit{
		TenantID:          tenantID,
		CreatedByID:       uuid.New(),
		DepositNumber:     number,
		CustomerName:      "Awa Ndiaye",
		CustomerPhone:     "+237690000001",
		CollectionAddress: "Rue 1.234, Akwa",
		CollectionDate:    testDay,
		Currency:          "XAF",
		Subtotal:          decimal.NewFromInt(3800),
		DiscountAmount:    decimal.Zero,
		TotalAmount:       decimal.NewFromInt(3800),
		UpfrontAmount:     decimal.NewFromInt(800),
		PaidAmount:        decimal.NewFromInt(800),
		RefundedAmount:    decimal.Zero,
		Status:            enum.DepositStatusNew,
		Version:           1,
		Items: []entity.DepositItem{
			{Name: "Chemise", Category: enum.ItemCategoryWashing, Quantity: 2, UnitPrice: decimal.NewFromInt(1500), TotalPrice: decimal.NewFromInt(3000)},
			{Name: "Cravate", Category: enum.ItemCategoryDryCleaning, Quantity: 1, UnitPrice: decimal.NewFromInt(800), TotalPrice: decimal.NewFromInt(800)},
		},
		Installments: []entity.Installment{
			{InstallmentNumber: 1, Amount: decimal.NewFromInt(1500), DueDate: testDay.AddDate(0, 0, 7)},
			{InstallmentNumber: 2, Amount: decimal.NewFromInt(1500), DueDate: testDay.AddDate(0, 0, 14)},
		},
		Payments: []entity.Payment{
			{Kind: enum.PaymentKindPayment, Amount: decimal.NewFromInt(800), Method: enum.PaymentMethodCash, RecordedByID: uuid.New(), RecordedAt: testDay},
		},
		IsInstallmentPayment: true,
		InstallmentCount:     2,
		InstallmentInterval:  7,
	}
	d.Settle()
	return d
}
