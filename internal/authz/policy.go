// Package authz centralizes every "who can do what to whom" rule as a pure
// decision function. Callers translate a Deny into a 403 using the reason
// tag; no rule lives anywhere else.
package authz

import (
	"strings"

	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
)

// Action is an administrative operation subject to policy.
type Action string

const (
	ActionCreateEmployee   Action = "CREATE_EMPLOYEE"
	ActionPromoteManager   Action = "PROMOTE_MANAGER"
	ActionDemoteManager    Action = "DEMOTE_MANAGER"
	ActionPromoteAdmin     Action = "PROMOTE_ADMIN"
	ActionRemoveAdmin      Action = "REMOVE_ADMIN"
	ActionUpdateStatus     Action = "UPDATE_STATUS"
	ActionUpdateDepartment Action = "UPDATE_DEPARTMENT"
	ActionViewEmployee     Action = "VIEW_EMPLOYEE"
	ActionViewAll          Action = "VIEW_ALL"
	ActionGrantSuperAdmin  Action = "GRANT_SUPERADMIN"
)

// Reason is the machine-distinguishable outcome tag carried on every deny.
type Reason string

const (
	ReasonAllowed             Reason = "Allowed"
	ReasonInsufficientRole    Reason = "InsufficientRole"
	ReasonSelfActionForbidden Reason = "SelfActionForbidden"
	ReasonForbidden           Reason = "Forbidden"
)

// Target describes the resource or identity an action is aimed at. Roles may
// be empty when the target's roles are unknown or irrelevant to the action.
type Target struct {
	Email string
	Roles []domain.Role
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates the policy rules in precedence order:
//
//  1. SUPERADMIN may perform any action on any target, including other
//     SUPERADMINs — except granting SUPERADMIN itself, which the public
//     mutation path rejects unconditionally.
//  2. ADMIN may act on targets that are neither ADMIN nor SUPERADMIN, and may
//     not act on themselves for status changes.
//  3. MANAGER may view employees and listings (department scoping is enforced
//     by the caller, which knows the manager's own department).
//  4. Everything else is denied for administrative actions.
func Decide(actor domain.Principal, action Action, target Target) Decision {
	// SUPERADMIN is never grantable through this path, not even by a
	// SUPERADMIN. It exists only via bootstrap seeding.
	if action == ActionGrantSuperAdmin {
		return deny(ReasonForbidden)
	}

	if actor.HasRole(domain.RoleSuperAdmin) {
		return allow()
	}

	switch action {
	case ActionPromoteAdmin, ActionRemoveAdmin:
		// SUPERADMIN-only actions; everyone reaching here lacks it.
		return deny(ReasonInsufficientRole)

	case ActionCreateEmployee, ActionPromoteManager, ActionDemoteManager,
		ActionUpdateStatus, ActionUpdateDepartment, ActionViewAll:
		if !actor.HasRole(domain.RoleAdmin) {
			return deny(ReasonInsufficientRole)
		}
		if domain.HasRole(target.Roles, domain.RoleAdmin) || domain.HasRole(target.Roles, domain.RoleSuperAdmin) {
			return deny(ReasonForbidden)
		}
		// Emails are compared case-insensitively; stores normalize to
		// lowercase but request input arrives as typed.
		if action == ActionUpdateStatus && target.Email != "" && strings.EqualFold(target.Email, actor.Email) {
			return deny(ReasonSelfActionForbidden)
		}
		return allow()

	case ActionViewEmployee:
		if actor.HasAnyRole(domain.RoleManager, domain.RoleAdmin) {
			return allow()
		}
		return deny(ReasonInsufficientRole)

	default:
		return deny(ReasonForbidden)
	}
}

// Err converts a deny into the domain error the transport layer renders.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonInsufficientRole:
		return dErrors.New(dErrors.CodeForbidden, "access denied: InsufficientRole")
	case ReasonSelfActionForbidden:
		return dErrors.New(dErrors.CodeForbidden, "access denied: SelfActionForbidden")
	default:
		return dErrors.New(dErrors.CodeForbidden, "access denied: Forbidden")
	}
}
