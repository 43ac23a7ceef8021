package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Permission names checked by the HTTP layer.
const (
	PermDepositsCreate = "deposits.create"
	PermDepositsView   = "deposits.view"
	PermDepositsUpdate = "deposits.update"
	PermDepositsCancel = "deposits.cancel"
	PermPaymentsRecord = "payments.record"
	PermPaymentsRefund = "payments.refund"
	PermReceiptsPrint  = "receipts.print"
	PermReceiptsSend   = "receipts.send"
	PermCatalogManage  = "catalog.manage"
	PermAgenciesManage = "agencies.manage"
	PermSettingsManage = "settings.manage"
	PermUsersManage    = "users.manage"
	PermDashboardView  = "dashboard.view"
	PermCustomersView  = "customers.view"
)

var operatorPermissions = []string{
	PermDepositsCreate, PermDepositsView, PermDepositsUpdate,
	PermPaymentsRecord, PermReceiptsPrint, PermReceiptsSend, PermCustomersView,
}

var managerPermissions = append([]string{
	PermDepositsCancel, PermPaymentsRefund, PermCatalogManage, PermDashboardView,
}, operatorPermissions...)

var adminPermissions = append([]string{
	PermAgenciesManage, PermSettingsManage, PermUsersManage,
}, managerPermissions...)

// RolePermissions returns the permission set granted to a role.
func RolePermissions(role enum.UserRole) []string {
	var perms []string
	switch role {
	case enum.UserRoleAdmin:
		perms = adminPermissions
	case enum.UserRoleManager:
		perms = managerPermissions
	case enum.UserRoleOperator:
		perms = operatorPermissions
	}
	return append([]string(nil), perms...)
}

// User is a counter operator of a tenant.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	AgencyID    *uuid.UUID     `gorm:"type:uuid;index" json:"agency_id,omitempty"`
	FirstName   string         `gorm:"size:255;not null" json:"first_name"`
	LastName    string         `gorm:"size:255;not null" json:"last_name"`
	Email       string         `gorm:"size:255;unique;not null" json:"email"`
	Password    string         `gorm:"size:255" json:"-"`
	Role        enum.UserRole  `gorm:"size:20;not null;default:'operator'" json:"role"`
	Active      bool           `gorm:"default:true" json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Agency *Agency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last".
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasPermission checks if the user has a specific permission
func (u *User) HasPermission(permissionName string) bool {
	for _, p := range RolePermissions(u.Role) {
		if p == permissionName {
			return true
		}
	}
	return false
}

// GetPermissions returns all permission names for the user
func (u *User) GetPermissions() []string {
	return RolePermissions(u.Role)
}
