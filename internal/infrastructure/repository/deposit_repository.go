package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var depositSortColumns = map[string]string{
	"created_at":      "created_at",
	"collection_date": "collection_date",
	"total_amount":    "total_amount",
	"deposit_number":  "deposit_number",
	"status":          "status",
}

type depositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *gorm.DB) domainRepo.DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) Create(ctx context.Context, deposit *entity.Deposit) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(deposit).Error; err != nil {
			return err
		}

		for i := range deposit.Items {
			deposit.Items[i].DepositID = deposit.ID
			deposit.Items[i].Position = i
		}
		if len(deposit.Items) > 0 {
			if err := tx.Create(&deposit.Items).Error; err != nil {
				return err
			}
		}

		if len(deposit.Installments) > 0 {
			for i := range deposit.Installments {
				deposit.Installments[i].DepositID = deposit.ID
				deposit.Installments[i].TenantID = deposit.TenantID
			}
			if err := tx.Omit("Deposit").Create(&deposit.Installments).Error; err != nil {
				return err
			}
		}

		if len(deposit.Payments) > 0 {
			for i := range deposit.Payments {
				deposit.Payments[i].DepositID = deposit.ID
				deposit.Payments[i].TenantID = deposit.TenantID
			}
			if err := tx.Create(&deposit.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *depositRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("installment_number ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("recorded_at ASC, created_at ASC") })
}

func (r *depositRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Deposit, error) {
	var deposit entity.Deposit
	err := r.withChildren(conn(ctx, r.db).Scopes(TenantScope(ctx))).
		First(&deposit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &deposit, err
}

func (r *depositRepository) GetByNumber(ctx context.Context, number string) (*entity.Deposit, error) {
	var deposit entity.Deposit
	err := r.withChildren(conn(ctx, r.db).Scopes(TenantScope(ctx))).
		First(&deposit, "deposit_number = ?", strings.ToUpper(strings.TrimSpace(number))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &deposit, err
}

func (r *depositRepository) UpdateState(ctx context.Context, deposit *entity.Deposit) error {
	res := conn(ctx, r.db).Model(&entity.Deposit{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND version = ?", deposit.ID, deposit.Version).
		Updates(map[string]interface{}{
			"status":           deposit.Status,
			"payment_status":   deposit.PaymentStatus,
			"paid_amount":      deposit.PaidAmount,
			"remaining_amount": deposit.RemainingAmount,
			"refunded_amount":  deposit.RefundedAmount,
			"cancel_reason":    deposit.CancelReason,
			"refund_reason":    deposit.RefundReason,
			"confirmed_at":     deposit.ConfirmedAt,
			"started_at":       deposit.StartedAt,
			"ready_at":         deposit.ReadyAt,
			"delivered_at":     deposit.DeliveredAt,
			"cancelled_at":     deposit.CancelledAt,
			"refunded_at":      deposit.RefundedAt,
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrOptimisticLock
	}
	deposit.Version++
	return nil
}

func applyDepositFilter(query *gorm.DB, f domainRepo.DepositFilter) *gorm.DB {
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(deposit_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?",
			like, like, "%"+f.Search+"%")
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *f.PaymentStatus)
	}
	if f.CustomerID != nil {
		query = query.Where("customer_id = ?", *f.CustomerID)
	}
	if f.AgencyID != nil {
		query = query.Where("agency_id = ?", *f.AgencyID)
	}
	if f.StartDate != nil {
		query = query.Where("collection_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("collection_date <= ?", *f.EndDate)
	}
	return query
}

func (r *depositRepository) List(ctx context.Context, params *domainRepo.DepositFilterParams) ([]entity.Deposit, int64, error) {
	var deposits []entity.Deposit
	var total int64

	query := conn(ctx, r.db).Model(&entity.Deposit{}).Scopes(TenantScope(ctx))
	query = applyDepositFilter(query, params.DepositFilter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	if col, ok := depositSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(sortBy + " " + sortOrder).
		Find(&deposits).Error

	return deposits, total, err
}

// ListWithCursor returns deposits using cursor-based pagination
func (r *depositRepository) ListWithCursor(ctx context.Context, params *domainRepo.DepositCursorFilterParams) ([]entity.Deposit, error) {
	var deposits []entity.Deposit

	if params.Cursor == nil {
		params.Cursor = pagination.DefaultCursorParams()
	}
	params.Cursor.Validate()

	query := conn(ctx, r.db).Model(&entity.Deposit{}).Scopes(TenantScope(ctx))
	query = applyDepositFilter(query, params.DepositFilter)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	order := "created_at ASC, id ASC"
	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
			order = "created_at DESC, id DESC"
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Order(order).
		Find(&deposits).Error
	return deposits, err
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) domainRepo.InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.Installment, error) {
	var installments []entity.Installment
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("deposit_id = ?", depositID).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) MarkPaid(ctx context.Context, installment *entity.Installment) error {
	res := conn(ctx, r.db).Model(&entity.Installment{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND status = ?", installment.ID, enum.InstallmentStatusPending).
		Updates(map[string]interface{}{
			"status":         installment.Status,
			"paid_date":      installment.PaidDate,
			"payment_method": installment.PaymentMethod,
			"notes":          installment.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrOptimisticLock
	}
	return nil
}

func (r *installmentRepository) ListOverdue(ctx context.Context, asOf time.Time, params *pagination.PaginationParams) ([]entity.Installment, int64, error) {
	var installments []entity.Installment
	var total int64

	openDeposits := conn(ctx, r.db).Model(&entity.Deposit{}).
		Select("id").
		Where("status <> ? AND payment_status <> ?", enum.DepositStatusCancelled, enum.PaymentStatusRefunded)

	query := conn(ctx, r.db).Model(&entity.Installment{}).
		Scopes(TenantScope(ctx)).
		Where("status = ? AND due_date < ?", enum.InstallmentStatusPending, asOf).
		Where("deposit_id IN (?)", openDeposits)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Deposit").
		Order("due_date ASC, installment_number ASC").
		Find(&installments).Error

	return installments, total, err
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment ledger repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return conn(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("deposit_id = ?", depositID).
		Order("recorded_at ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

type dispatchLogRepository struct {
	db *gorm.DB
}

// NewDispatchLogRepository creates a new dispatch log repository
func NewDispatchLogRepository(db *gorm.DB) domainRepo.DispatchLogRepository {
	return &dispatchLogRepository{db: db}
}

func (r *dispatchLogRepository) Create(ctx context.Context, log *entity.DispatchLog) error {
	return conn(ctx, r.db).Create(log).Error
}

func (r *dispatchLogRepository) Latest(ctx context.Context, depositID uuid.UUID) (*entity.DispatchLog, error) {
	var log entity.DispatchLog
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("deposit_id = ?", depositID).
		Order("created_at DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &log, err
}

func (r *dispatchLogRepository) ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.DispatchLog, error) {
	var logs []entity.DispatchLog
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("deposit_id = ?", depositID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
