package enums

import "fmt"

// ShopRole distinguishes ordinary tenants from platform admins.
type ShopRole string

const (
	ShopRoleNormal ShopRole = "normal"
	ShopRoleAdmin  ShopRole = "admin"
)

var validShopRoles = []ShopRole{
	ShopRoleNormal,
	ShopRoleAdmin,
}

// String implements fmt.Stringer.
func (r ShopRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ShopRole.
func (r ShopRole) IsValid() bool {
	for _, candidate := range validShopRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseShopRole converts raw input into a ShopRole.
func ParseShopRole(value string) (ShopRole, error) {
	for _, candidate := range validShopRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop role %q", value)
}
