package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"darum/internal/authz"
	"darum/internal/employee/events"
	"darum/internal/employee/models"
	empstore "darum/internal/employee/store/employee"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/sentinel"
)

// Collision retries for the generated employee code. The code space is large
// enough that more than one collision in a row means something is wrong.
const maxCodeAttempts = 3

// CreateEmployeeInput carries a create request.
type CreateEmployeeInput struct {
	Email      string
	Department string
	Position   string
}

// CreateEmployee binds a personnel record to an existing identity:
// authorize the actor, resolve the target identity remotely, validate the
// department, reject a second record for the same identity, then persist the
// record as ACTIVE and publish EmployeeCreated.
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (EmployeeDetails, error) {
	actor, err := s.resolveActor(ctx)
	if err != nil {
		return EmployeeDetails{}, err
	}
	if err := authz.Decide(actor, authz.ActionCreateEmployee, authz.Target{}).Err(); err != nil {
		s.sagaFailure(ctx, "policy", err)
		return EmployeeDetails{}, err
	}

	target, err := s.identity.FindByEmail(ctx, in.Email)
	if err != nil {
		s.sagaFailure(ctx, "identity_lookup", err)
		return EmployeeDetails{}, err
	}

	dept, ok := models.ParseDepartment(in.Department)
	if !ok {
		return EmployeeDetails{}, dErrors.New(dErrors.CodeValidation, "invalid department: "+in.Department)
	}

	if _, err := s.store.FindByIdentityID(ctx, target.ID); err == nil {
		return EmployeeDetails{}, dErrors.New(dErrors.CodeConflict, "employee already exists for user: "+target.Email)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing employee")
	}

	now := s.now()
	emp := models.Employee{
		ID:         uuid.NewString(),
		IdentityID: target.ID,
		Email:      target.Email,
		FirstName:  target.FirstName,
		LastName:   target.LastName,
		Department: dept,
		Position:   in.Position,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for attempt := 1; ; attempt++ {
		emp.Code, err = generateCode()
		if err != nil {
			return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate employee code")
		}

		err = s.store.Create(ctx, emp)
		if err == nil {
			break
		}
		if errors.Is(err, empstore.ErrDuplicateIdentity) {
			return EmployeeDetails{}, dErrors.New(dErrors.CodeConflict, "employee already exists for user: "+target.Email)
		}
		if errors.Is(err, empstore.ErrDuplicateCode) && attempt < maxCodeAttempts {
			s.logger.WarnContext(ctx, "employee code collision, regenerating",
				"code", emp.Code,
				"attempt", attempt,
			)
			continue
		}
		return EmployeeDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save employee")
	}

	s.logger.InfoContext(ctx, "employee created",
		"employee_code", emp.Code,
		"email", emp.Email,
		"department", emp.Department,
		"actor", actor.Email,
	)
	if s.metrics != nil {
		s.metrics.EmployeesCreated.Inc()
	}

	s.publisher.EmployeeCreated(ctx, events.EmployeeCreated{
		EmployeeCode: emp.Code,
		Email:        emp.Email,
		FullName:     emp.FullName(),
		Department:   emp.Department,
		Position:     emp.Position,
		OccurredAt:   now,
	})

	return EmployeeDetails{Employee: emp, Roles: roleTags(target.Roles)}, nil
}
