package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DispatchLog records one attempt to send a receipt message to a customer.
type DispatchLog struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DepositID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"deposit_id"`
	ReceiptType   enum.ReceiptType     `gorm:"size:20;not null" json:"receipt_type"`
	Channel       enum.DispatchChannel `gorm:"size:20;not null" json:"channel"`
	Recipient     string               `gorm:"size:255;not null" json:"recipient"`
	Status        enum.DispatchStatus  `gorm:"size:20;not null" json:"status"`
	MessageID     *string              `gorm:"size:255" json:"message_id,omitempty"`
	Error         *string              `gorm:"type:text" json:"error,omitempty"`
	Metadata      datatypes.JSONMap    `json:"metadata,omitempty"`
	AttemptedByID uuid.UUID            `gorm:"type:uuid;not null" json:"attempted_by_id"`
	CreatedAt     time.Time            `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new dispatch log
func (l *DispatchLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DispatchLog model
func (DispatchLog) TableName() string {
	return "dispatch_logs"
}
