package service

import (
	"context"
	"errors"

	"darum/internal/authz"
	"darum/internal/employee/events"
	"darum/internal/employee/models"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/sentinel"
)

// roleMutation parameterizes the shared pipeline: which policy action gates
// it, which role moves, and in which direction.
type roleMutation struct {
	action authz.Action
	role   domain.Role
	change events.RoleChangeAction
}

// PromoteToManager grants MANAGER to the target and moves their employee
// record to the given department. The department write happens only after the
// remote role append succeeds; if that local write then fails, the role is
// not rolled back — the gap is logged and surfaced for operator read-repair.
func (s *Service) PromoteToManager(ctx context.Context, email, department string) (EmployeeDetails, error) {
	dept, ok := models.ParseDepartment(department)
	if !ok {
		return EmployeeDetails{}, dErrors.New(dErrors.CodeValidation, "invalid department: "+department)
	}
	return s.mutateRole(ctx, email, roleMutation{
		action: authz.ActionPromoteManager,
		role:   domain.RoleManager,
		change: events.RoleAdded,
	}, &dept)
}

// DemoteManager revokes MANAGER from the target. The employee record keeps
// its department.
func (s *Service) DemoteManager(ctx context.Context, email string) (EmployeeDetails, error) {
	return s.mutateRole(ctx, email, roleMutation{
		action: authz.ActionDemoteManager,
		role:   domain.RoleManager,
		change: events.RoleRemoved,
	}, nil)
}

// PromoteToAdmin grants ADMIN to the target. SUPERADMIN only.
func (s *Service) PromoteToAdmin(ctx context.Context, email string) (EmployeeDetails, error) {
	return s.mutateRole(ctx, email, roleMutation{
		action: authz.ActionPromoteAdmin,
		role:   domain.RoleAdmin,
		change: events.RoleAdded,
	}, nil)
}

// RemoveAdmin revokes ADMIN from the target. SUPERADMIN only.
func (s *Service) RemoveAdmin(ctx context.Context, email string) (EmployeeDetails, error) {
	return s.mutateRole(ctx, email, roleMutation{
		action: authz.ActionRemoveAdmin,
		role:   domain.RoleAdmin,
		change: events.RoleRemoved,
	}, nil)
}

// mutateRole runs the ordered two-service pipeline shared by all role
// mutations. Each step gates the next; a failure aborts without compensating
// already-applied steps.
func (s *Service) mutateRole(ctx context.Context, email string, m roleMutation, newDept *models.Department) (EmployeeDetails, error) {
	actor, err := s.resolveActor(ctx)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, m.action, authz.Target{Email: email}).Err(); err != nil {
		s.sagaFailure(ctx, "policy", err)
		return EmployeeDetails{}, err
	}

	// The local lookup comes before any remote mutation so identity state is
	// never changed for a target with no employee record.
	emp, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "employee not found with email: "+email)
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
		}
		s.sagaFailure(ctx, "employee_lookup", err)
		return EmployeeDetails{}, err
	}

	target, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		s.sagaFailure(ctx, "identity_lookup", err)
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, m.action, authz.Target{Email: email, Roles: target.ParsedRoles()}).Err(); err != nil {
		s.sagaFailure(ctx, "policy", err)
		return EmployeeDetails{}, err
	}

	// The identity service owns the already-has-role / does-not-have-role
	// conflicts; the pipeline does not pre-check them locally.
	mutate := s.identity.AddRole
	if m.change == events.RoleRemoved {
		mutate = s.identity.RemoveRole
	}
	if _, err := mutate(ctx, target.ID, string(m.role)); err != nil {
		s.sagaFailure(ctx, "role_mutation", err)
		return EmployeeDetails{}, err
	}

	if newDept != nil {
		emp.Department = *newDept
		emp.UpdatedAt = s.now()
		emp, err = s.store.Update(ctx, emp)
		if err != nil {
			// The remote role is already applied. Known inconsistency window:
			// re-running the promotion is the recovery path.
			s.logger.ErrorContext(ctx, "convergence gap: role applied remotely but local employee write failed",
				"employee_code", emp.Code,
				"email", email,
				"role", m.role,
				"error", err.Error(),
			)
			s.sagaFailure(ctx, "local_write", err)
			return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update employee record")
		}
	}

	roles, err := s.rereadRoles(ctx, email)
	if err != nil {
		return EmployeeDetails{}, err
	}

	s.logger.InfoContext(ctx, "role mutation applied",
		"employee_code", emp.Code,
		"email", email,
		"role", m.role,
		"change", m.change,
		"actor", actor.Email,
	)
	if s.metrics != nil {
		s.metrics.RoleMutations.WithLabelValues(string(m.action)).Inc()
	}

	s.publisher.RoleChanged(ctx, events.RoleChanged{
		EmployeeCode: emp.Code,
		Email:        emp.Email,
		FullName:     emp.FullName(),
		Role:         string(m.role),
		Action:       m.change,
		ActorEmail:   actor.Email,
		OccurredAt:   s.now(),
	})

	return EmployeeDetails{Employee: emp, Roles: roles}, nil
}
