package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/pagination"
)

// DepositRepository defines the interface for deposit data operations
type DepositRepository interface {
	// Create inserts the deposit with its items, installments and payments.
	Create(ctx context.Context, deposit *entity.Deposit) error
	// GetByID loads the deposit with items, installments and payments. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Deposit, error)
	GetByNumber(ctx context.Context, number string) (*entity.Deposit, error)
	// UpdateState writes the mutable columns of the deposit if its version still equals
	// deposit.Version, then increments it. A stale version yields ErrOptimisticLock.
	UpdateState(ctx context.Context, deposit *entity.Deposit) error
	List(ctx context.Context, params *DepositFilterParams) ([]entity.Deposit, int64, error)
	ListWithCursor(ctx context.Context, params *DepositCursorFilterParams) ([]entity.Deposit, error)
}

// DepositFilter holds the filters shared by page and cursor listings
type DepositFilter struct {
	Search        string
	Status        *enum.DepositStatus
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	AgencyID      *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// DepositFilterParams contains filtering parameters for deposit queries
type DepositFilterParams struct {
	DepositFilter
	Pagination *pagination.PaginationParams
	SortBy     string
	SortOrder  string
}

// DepositCursorFilterParams contains cursor-based filtering for deposit queries
type DepositCursorFilterParams struct {
	DepositFilter
	Cursor *pagination.CursorParams
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.Installment, error)
	// MarkPaid persists a PAID installment only if it is still PENDING in storage.
	MarkPaid(ctx context.Context, installment *entity.Installment) error
	// ListOverdue returns pending installments due before asOf, oldest first.
	ListOverdue(ctx context.Context, asOf time.Time, params *pagination.PaginationParams) ([]entity.Installment, int64, error)
}

// PaymentRepository defines the interface for the payment ledger
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.Payment, error)
}

// DispatchLogRepository defines the interface for receipt dispatch attempts
type DispatchLogRepository interface {
	Create(ctx context.Context, log *entity.DispatchLog) error
	// Latest returns the most recent attempt for a deposit, or nil.
	Latest(ctx context.Context, depositID uuid.UUID) (*entity.DispatchLog, error)
	ListByDeposit(ctx context.Context, depositID uuid.UUID) ([]entity.DispatchLog, error)
}
