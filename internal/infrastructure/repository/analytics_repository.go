package repository

import (
	"context"
	"time"

	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountByStatus(ctx context.Context) ([]domainRepo.StatusCount, error) {
	var results []domainRepo.StatusCount
	err := conn(ctx, r.db).Model(&entity.Deposit{}).
		Scopes(TenantScope(ctx)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) CountByPaymentStatus(ctx context.Context) ([]domainRepo.PaymentStatusCount, error) {
	var results []domainRepo.PaymentStatusCount
	err := conn(ctx, r.db).Model(&entity.Deposit{}).
		Scopes(TenantScope(ctx)).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Order("payment_status ASC").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) OutstandingAmount(ctx context.Context) (decimal.Decimal, error) {
	var amount decimal.NullDecimal
	err := conn(ctx, r.db).Model(&entity.Deposit{}).
		Scopes(TenantScope(ctx)).
		Select("SUM(remaining_amount)").
		Where("status <> ? AND payment_status <> ?", enum.DepositStatusCancelled, enum.PaymentStatusRefunded).
		Row().Scan(&amount)
	return amount.Decimal, err
}

func (r *analyticsRepository) CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var in, out decimal.NullDecimal

	base := func() *gorm.DB {
		return conn(ctx, r.db).Model(&entity.Payment{}).
			Scopes(TenantScope(ctx)).
			Select("SUM(amount)").
			Where("recorded_at >= ? AND recorded_at < ?", from, to)
	}

	if err := base().Where("kind = ?", enum.PaymentKindPayment).Row().Scan(&in); err != nil {
		return decimal.Zero, err
	}
	if err := base().Where("kind = ?", enum.PaymentKindRefund).Row().Scan(&out); err != nil {
		return decimal.Zero, err
	}
	return in.Decimal.Sub(out.Decimal), nil
}

func (r *analyticsRepository) OverdueInstallments(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	openDeposits := conn(ctx, r.db).Model(&entity.Deposit{}).
		Select("id").
		Where("status <> ? AND payment_status <> ?", enum.DepositStatusCancelled, enum.PaymentStatusRefunded)

	err := conn(ctx, r.db).Model(&entity.Installment{}).
		Scopes(TenantScope(ctx)).
		Where("status = ? AND due_date < ?", enum.InstallmentStatusPending, asOf).
		Where("deposit_id IN (?)", openDeposits).
		Count(&count).Error
	return count, err
}
