package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Installment is one scheduled part of a deposit's remaining balance.
type Installment struct {
	ID                uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TenantID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DepositID         uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_installment_number" json:"deposit_id"`
	InstallmentNumber int                    `gorm:"not null;uniqueIndex:idx_installment_number" json:"installment_number"`
	Amount            decimal.Decimal        `gorm:"type:decimal(18,4);not null" json:"amount"`
	DueDate           time.Time              `gorm:"not null;index" json:"due_date"`
	Status            enum.InstallmentStatus `gorm:"default:0;index" json:"status"`
	PaidDate          *time.Time             `json:"paid_date,omitempty"`
	PaymentMethod     *enum.PaymentMethod    `json:"payment_method,omitempty"`
	Notes             *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`

	Deposit *Deposit `gorm:"foreignKey:DepositID" json:"deposit,omitempty"`
}

// BeforeCreate generates a UUID before creating a new installment
func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Installment model
func (Installment) TableName() string {
	return "installments"
}

// MarkPaid flips the installment to PAID. It can happen only once.
func (i *Installment) MarkPaid(method enum.PaymentMethod, at time.Time, note string) error {
	if i.Status == enum.InstallmentStatusPaid {
		return ErrInstallmentAlreadyPaid
	}
	i.Status = enum.InstallmentStatusPaid
	i.PaidDate = &at
	i.PaymentMethod = &method
	if note != "" {
		i.Notes = &note
	}
	return nil
}

// IsOverdue reports whether a pending installment's due date has passed.
func (i *Installment) IsOverdue(now time.Time) bool {
	return i.Status == enum.InstallmentStatusPending && i.DueDate.Before(now)
}
