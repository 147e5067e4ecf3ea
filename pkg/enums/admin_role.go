package enums

import "fmt"

// AdminRole is the role claim carried by back-office access tokens.
type AdminRole string

const AdminRoleAdmin AdminRole = "admin"

func (r AdminRole) String() string {
	return string(r)
}

func (r AdminRole) IsValid() bool {
	return r == AdminRoleAdmin
}

func ParseAdminRole(value string) (AdminRole, error) {
	if AdminRole(value).IsValid() {
		return AdminRole(value), nil
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
