package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a laundry business in the multitenant system
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  TenantSettings `gorm:"type:text" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Agencies []Agency `gorm:"foreignKey:TenantID" json:"agencies,omitempty"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds the per-tenant configuration used at the counter and on receipts
type TenantSettings struct {
	// Localization
	Currency string `json:"currency,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Timezone string `json:"timezone,omitempty"`

	// Numbering and receipts
	DepositPrefix string `json:"deposit_prefix,omitempty"`
	ReceiptHeader string `json:"receipt_header,omitempty"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Email         string `json:"email,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`

	// Installments
	DefaultInstallmentCount    int `json:"default_installment_count,omitempty"`
	DefaultInstallmentInterval int `json:"default_installment_interval,omitempty"`

	// Notification Settings
	WhatsAppEnabled bool `json:"whatsapp_enabled"`
	EmailEnabled    bool `json:"email_enabled"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	b, err := json.Marshal(ts)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// WithDefaults fills empty settings with the platform defaults.
func (ts TenantSettings) WithDefaults() TenantSettings {
	d := DefaultTenantSettings()
	if ts.Currency == "" {
		ts.Currency = d.Currency
	}
	if ts.Locale == "" {
		ts.Locale = d.Locale
	}
	if ts.Timezone == "" {
		ts.Timezone = d.Timezone
	}
	if ts.DepositPrefix == "" {
		ts.DepositPrefix = d.DepositPrefix
	}
	if ts.DefaultInstallmentCount == 0 {
		ts.DefaultInstallmentCount = d.DefaultInstallmentCount
	}
	if ts.DefaultInstallmentInterval == 0 {
		ts.DefaultInstallmentInterval = d.DefaultInstallmentInterval
	}
	return ts
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:                   "XAF",
		Locale:                     "fr-FR",
		Timezone:                   "Africa/Douala",
		DepositPrefix:              "DEP-",
		ReceiptFooter:              "Merci de votre confiance !",
		DefaultInstallmentCount:    2,
		DefaultInstallmentInterval: 7,
		WhatsAppEnabled:            true,
		EmailEnabled:               true,
	}
}
