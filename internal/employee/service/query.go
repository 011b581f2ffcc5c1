package service

import (
	"context"
	"errors"

	"darum/internal/authz"
	"darum/internal/employee/models"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/sentinel"
	"darum/pkg/requestcontext"
)

// The department listed for a SUPERADMIN with no employee record of their
// own. An explicit, documented special case: the bootstrap account is not an
// employee but still needs a working department view.
const superAdminFallbackDepartment = models.DepartmentOperations

// GetByCode returns one employee. ADMIN and SUPERADMIN may view anyone; a
// MANAGER only employees in their own department, resolved from the manager's
// own employee record.
func (s *Service) GetByCode(ctx context.Context, code string) (models.Employee, error) {
	actor, err := s.resolveActor(ctx)
	if err != nil {
		return models.Employee{}, err
	}
	if err := authz.Decide(actor, authz.ActionViewEmployee, authz.Target{}).Err(); err != nil {
		return models.Employee{}, err
	}

	emp, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Employee{}, dErrors.New(dErrors.CodeNotFound, "employee not found with code: "+code)
		}
		return models.Employee{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
	}

	if !actor.HasAnyRole(domain.RoleAdmin, domain.RoleSuperAdmin) {
		own, err := s.store.FindByEmail(ctx, actor.Email)
		if err != nil {
			// A manager with no employee record of their own cannot be scoped,
			// so the view fails rather than defaulting to unrestricted.
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.Employee{}, dErrors.New(dErrors.CodeForbidden, "access denied: Forbidden")
			}
			return models.Employee{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
		}
		if own.Department != emp.Department {
			return models.Employee{}, dErrors.New(dErrors.CodeForbidden, "access denied: Forbidden")
		}
	}

	return emp, nil
}

// MyDetails returns the caller's own employee record.
func (s *Service) MyDetails(ctx context.Context) (models.Employee, error) {
	principal := requestcontext.Principal(ctx)
	if principal.IsZero() {
		return models.Employee{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.findEmployeeByEmail(ctx, principal.Email)
}

// ListMyDepartment lists the employees in the caller's own department. A
// SUPERADMIN with no employee record falls back to the default department
// instead of erroring.
func (s *Service) ListMyDepartment(ctx context.Context) ([]models.Employee, error) {
	actor, err := s.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	dept := superAdminFallbackDepartment
	own, err := s.store.FindByEmail(ctx, actor.Email)
	switch {
	case err == nil:
		dept = own.Department
	case errors.Is(err, sentinel.ErrNotFound):
		if !actor.HasRole(domain.RoleSuperAdmin) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found with email: "+actor.Email)
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
	}

	emps, err := s.store.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}
	return emps, nil
}

// ListAll lists every employee. ADMIN and SUPERADMIN only.
func (s *Service) ListAll(ctx context.Context) ([]models.Employee, error) {
	actor, err := s.resolveActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(actor, authz.ActionViewAll, authz.Target{}).Err(); err != nil {
		return nil, err
	}

	emps, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}
	return emps, nil
}

// ListDepartments returns the closed department vocabulary.
func (s *Service) ListDepartments() []models.Department {
	return models.AllDepartments()
}
