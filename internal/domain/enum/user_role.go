package enum

// UserRole names the built-in roles seeded for every tenant.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleOperator UserRole = "operator"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleOperator:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}
