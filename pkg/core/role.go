// SPDX-License-Identifier: Apache-2.0
// Package core provides the shared types and the evaluator contract for the
// HHAC council.
package core

import "fmt"

// Role identifies one of the seven fixed council domains. The set is closed:
// new roles require code changes, not registration.
type Role string

const (
	RoleMind    Role = "mind"
	RoleBody    Role = "body"
	RoleFuel    Role = "fuel"
	RoleRest    Role = "rest"
	RoleBelong  Role = "belong"
	RoleSafety  Role = "safety"
	RolePurpose Role = "purpose"
)

// Roles returns all seven roles in their canonical order. Callers that need
// deterministic iteration over per-role maps range over this slice.
func Roles() []Role {
	return []Role{RoleMind, RoleBody, RoleFuel, RoleRest, RoleBelong, RoleSafety, RolePurpose}
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMind, RoleBody, RoleFuel, RoleRest, RoleBelong, RoleSafety, RolePurpose:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the seven council roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }
