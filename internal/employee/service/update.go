package service

import (
	"context"
	"errors"

	"darum/internal/authz"
	"darum/internal/employee/events"
	"darum/internal/employee/models"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/sentinel"
)

// UpdateStatus transitions an employee's lifecycle state. ADMIN may not
// change the status of another ADMIN, a SUPERADMIN, or themselves; SUPERADMIN
// may change anyone's.
func (s *Service) UpdateStatus(ctx context.Context, email, status string) (EmployeeDetails, error) {
	newStatus, ok := models.ParseStatus(status)
	if !ok {
		return EmployeeDetails{}, dErrors.New(dErrors.CodeValidation, "invalid status: "+status)
	}

	actor, err := s.resolveActor(ctx)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, authz.ActionUpdateStatus, authz.Target{Email: email}).Err(); err != nil {
		return EmployeeDetails{}, err
	}

	emp, err := s.findEmployeeByEmail(ctx, email)
	if err != nil {
		return EmployeeDetails{}, err
	}

	target, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, authz.ActionUpdateStatus, authz.Target{Email: email, Roles: target.ParsedRoles()}).Err(); err != nil {
		return EmployeeDetails{}, err
	}

	oldStatus := emp.Status
	emp.Status = newStatus
	emp.UpdatedAt = s.now()
	emp, err = s.store.Update(ctx, emp)
	if err != nil {
		return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update employee status")
	}

	s.logger.InfoContext(ctx, "employee status updated",
		"employee_code", emp.Code,
		"old_status", oldStatus,
		"new_status", newStatus,
		"actor", actor.Email,
	)

	s.publisher.EmployeeStatusUpdated(ctx, events.EmployeeStatusUpdated{
		EmployeeCode: emp.Code,
		Email:        emp.Email,
		FullName:     emp.FullName(),
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		OccurredAt:   s.now(),
	})

	return EmployeeDetails{Employee: emp, Roles: roleTags(target.Roles)}, nil
}

// UpdateDepartment moves an employee, addressed by code, to another
// department.
func (s *Service) UpdateDepartment(ctx context.Context, code, department string) (EmployeeDetails, error) {
	dept, ok := models.ParseDepartment(department)
	if !ok {
		return EmployeeDetails{}, dErrors.New(dErrors.CodeValidation, "invalid department: "+department)
	}

	actor, err := s.resolveActor(ctx)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, authz.ActionUpdateDepartment, authz.Target{}).Err(); err != nil {
		return EmployeeDetails{}, err
	}

	emp, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return EmployeeDetails{}, dErrors.New(dErrors.CodeNotFound, "employee not found with code: "+code)
		}
		return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
	}

	target, err := s.identity.FindByEmail(ctx, emp.Email)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, authz.ActionUpdateDepartment, authz.Target{Email: emp.Email, Roles: target.ParsedRoles()}).Err(); err != nil {
		return EmployeeDetails{}, err
	}

	emp.Department = dept
	emp.UpdatedAt = s.now()
	emp, err = s.store.Update(ctx, emp)
	if err != nil {
		return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update employee department")
	}

	s.logger.InfoContext(ctx, "employee department updated",
		"employee_code", emp.Code,
		"department", dept,
		"actor", actor.Email,
	)

	return EmployeeDetails{Employee: emp, Roles: roleTags(target.Roles)}, nil
}

func (s *Service) findEmployeeByEmail(ctx context.Context, email string) (models.Employee, error) {
	emp, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Employee{}, dErrors.New(dErrors.CodeNotFound, "employee not found with email: "+email)
		}
		return models.Employee{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
	}
	return emp, nil
}
