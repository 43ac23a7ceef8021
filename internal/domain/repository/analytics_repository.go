package repository

import (
	"context"
	"time"

	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// StatusCount is the number of deposits in one fulfillment state
type StatusCount struct {
	Status enum.DepositStatus
	Count  int64
}

// PaymentStatusCount is the number of deposits in one payment state
type PaymentStatusCount struct {
	PaymentStatus enum.PaymentStatus
	Count         int64
}

// AnalyticsRepository defines interface for dashboard aggregation queries
type AnalyticsRepository interface {
	// CountByStatus returns the number of deposits per fulfillment status
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// CountByPaymentStatus returns the number of deposits per payment status
	CountByPaymentStatus(ctx context.Context) ([]PaymentStatusCount, error)

	// OutstandingAmount sums the remaining balance of deposits that are not cancelled
	OutstandingAmount(ctx context.Context) (decimal.Decimal, error)

	// CollectedBetween sums payments minus refunds recorded in [from, to)
	CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// OverdueInstallments counts pending installments of open deposits due before asOf
	OverdueInstallments(ctx context.Context, asOf time.Time) (int64, error)
}
