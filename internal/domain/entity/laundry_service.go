package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LaundryService is a catalog entry (e.g. "Chemise - lavage") with its counter price.
type LaundryService struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Category    enum.ItemCategory `gorm:"default:0" json:"category"`
	UnitPrice   decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Description *string           `gorm:"type:text" json:"description,omitempty"`
	Active      bool              `gorm:"default:true" json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new service
func (s *LaundryService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LaundryService model
func (LaundryService) TableName() string {
	return "laundry_services"
}
