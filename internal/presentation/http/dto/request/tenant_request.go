package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces the tenant settings
type UpdateSettingsRequest struct {
	Currency                   string `json:"currency" binding:"required,len=3"`
	Locale                     string `json:"locale" binding:"required"`
	Timezone                   string `json:"timezone" binding:"required"`
	DepositPrefix              string `json:"deposit_prefix" binding:"max=10"`
	ReceiptHeader              string `json:"receipt_header" binding:"max=500"`
	ReceiptFooter              string `json:"receipt_footer" binding:"max=500"`
	Phone                      string `json:"phone" binding:"max=50"`
	Address                    string `json:"address" binding:"max=500"`
	Email                      string `json:"email" binding:"omitempty,email"`
	LogoURL                    string `json:"logo_url" binding:"omitempty,url"`
	DefaultInstallmentCount    int    `json:"default_installment_count"`
	DefaultInstallmentInterval int    `json:"default_installment_interval"`
	WhatsAppEnabled            bool   `json:"whatsapp_enabled"`
	EmailEnabled               bool   `json:"email_enabled"`
}

// ToSettings converts the request into tenant settings
func (r *UpdateSettingsRequest) ToSettings() entity.TenantSettings {
	return entity.TenantSettings{
		Currency:                   r.Currency,
		Locale:                     r.Locale,
		Timezone:                   r.Timezone,
		DepositPrefix:              r.DepositPrefix,
		ReceiptHeader:              r.ReceiptHeader,
		ReceiptFooter:              r.ReceiptFooter,
		Phone:                      r.Phone,
		Address:                    r.Address,
		Email:                      r.Email,
		LogoURL:                    r.LogoURL,
		DefaultInstallmentCount:    r.DefaultInstallmentCount,
		DefaultInstallmentInterval: r.DefaultInstallmentInterval,
		WhatsAppEnabled:            r.WhatsAppEnabled,
		EmailEnabled:               r.EmailEnabled,
	}
}

// CreateAgencyRequest adds a branch
type CreateAgencyRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,phone"`
}

// CatalogEntryRequest creates or replaces a catalog entry
type CatalogEntryRequest struct {
	Name        string            `json:"name" binding:"required,max=255"`
	Category    enum.ItemCategory `json:"category"`
	UnitPrice   decimal.Decimal   `json:"unit_price" binding:"money"`
	Description *string           `json:"description" binding:"omitempty,max=1000"`
	Active      *bool             `json:"active"`
}

// UpdateCustomerRequest edits a customer's contact details
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Notes   *string `json:"notes" binding:"omitempty,max=1000"`
}

// CreateUserRequest adds an operator
type CreateUserRequest struct {
	FirstName string        `json:"first_name" binding:"required,max=255"`
	LastName  string        `json:"last_name" binding:"max=255"`
	Email     string        `json:"email" binding:"required,email"`
	Password  string        `json:"password" binding:"required,min=8"`
	Role      enum.UserRole `json:"role" binding:"omitempty,oneof=admin manager operator"`
	AgencyID  *uuid.UUID    `json:"agency_id"`
}

// UpdateUserRequest changes an operator's role, agency or activation
type UpdateUserRequest struct {
	Role     *enum.UserRole `json:"role" binding:"omitempty,oneof=admin manager operator"`
	AgencyID *uuid.UUID     `json:"agency_id"`
	Active   *bool          `json:"active"`
}
