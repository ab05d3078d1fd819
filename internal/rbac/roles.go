// Package rbac implements the role registry, the static grant table and the
// authorization guard shared by every entity handler.
package rbac

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is one of the closed set of role tags. The set is known at build
// time; every principal has exactly one role.
type Role string

// Wire-level role identifiers. These strings are part of the API contract
// and must match exactly.
const (
	RoleAdmin           Role = "admin"
	RoleDeptHead        Role = "dept_head"
	RoleServiceManager  Role = "service_manager"
	RoleAccountsManager Role = "accounts_manager"
	RoleProductManager  Role = "product_manager"
	RoleDriverManager   Role = "driver_manager"
	RoleTechnician      Role = "technician"
	RoleCustomer        Role = "customer"
)

var roleOrder = []Role{
	RoleAdmin,
	RoleDeptHead,
	RoleServiceManager,
	RoleAccountsManager,
	RoleProductManager,
	RoleDriverManager,
	RoleTechnician,
	RoleCustomer,
}

// Roles returns the canonical ordered list of roles for display.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// IsValidRole reports whether the tag names a known role. Unknown strings
// are always invalid, never silently accepted.
func IsValidRole(tag string) bool {
	for _, r := range roleOrder {
		if string(r) == tag {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.English)

// DisplayName returns a human-readable label for the role tag,
// e.g. "dept_head" -> "Dept Head".
func (r Role) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(string(r), "_", " "))
}
