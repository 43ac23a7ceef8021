package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is a ledger row. Rows are only ever appended: money received at intake
// or later, and refunds.
type Payment struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DepositID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"deposit_id"`
	InstallmentID *uuid.UUID         `gorm:"type:uuid;index" json:"installment_id,omitempty"`
	Kind          enum.PaymentKind   `gorm:"default:0" json:"kind"`
	Amount        decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method        enum.PaymentMethod `gorm:"default:0" json:"method"`
	Note          *string            `gorm:"type:text" json:"note,omitempty"`
	RecordedByID  uuid.UUID          `gorm:"type:uuid;not null" json:"recorded_by_id"`
	RecordedAt    time.Time          `gorm:"not null;index" json:"recorded_at"`
	CreatedAt     time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "deposit_payments"
}
