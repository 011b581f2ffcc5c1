// Package domain holds the small shared vocabulary that crosses service
// boundaries: role tags and the request-scoped principal. Everything heavier
// stays inside the owning service.
package domain

import (
	"strings"

	platformstrings "darum/pkg/platform/strings"
)

// Role is a tag from the closed role vocabulary.
type Role string

const (
	RoleUser       Role = "USER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// AllRoles lists the vocabulary in privilege order, least to most.
var AllRoles = []Role{RoleUser, RoleEmployee, RoleManager, RoleAdmin, RoleSuperAdmin}

// ParseRole resolves a role tag case-insensitively. The second return is
// false for tags outside the vocabulary.
func ParseRole(s string) (Role, bool) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range AllRoles {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

// HasRole reports whether roles contains r.
func HasRole(roles []Role, r Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}

// JoinRoles renders roles as the comma-separated form carried in the
// X-User-Roles trust header.
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// SplitRoles parses the comma-separated trust-header form, dropping tags
// outside the vocabulary and case-insensitive duplicates.
func SplitRoles(s string) []Role {
	var roles []Role
	for _, part := range platformstrings.DedupeAndTrimLower(strings.Split(s, ",")) {
		if r, ok := ParseRole(part); ok {
			roles = append(roles, r)
		}
	}
	return roles
}
