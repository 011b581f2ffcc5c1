package handler

import (
	"time"

	"darum/internal/employee/models"
	"darum/internal/employee/service"
)

// EmployeeResponse is the wire shape of one personnel record.
type EmployeeResponse struct {
	EmployeeCode string    `json:"employeeCode"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmployeeDetailsResponse augments an employee with the identity service's
// current roles, composed from a post-mutation read.
type EmployeeDetailsResponse struct {
	EmployeeResponse
	Roles []string `json:"roles"`
}

func employeeResponse(emp models.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeCode: emp.Code,
		Email:        emp.Email,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Department:   string(emp.Department),
		Position:     emp.Position,
		Status:       string(emp.Status),
		CreatedAt:    emp.CreatedAt,
		UpdatedAt:    emp.UpdatedAt,
	}
}

func detailsResponse(details service.EmployeeDetails) EmployeeDetailsResponse {
	return EmployeeDetailsResponse{
		EmployeeResponse: employeeResponse(details.Employee),
		Roles:            details.Roles,
	}
}

func employeeListResponse(emps []models.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		out[i] = employeeResponse(emp)
	}
	return out
}
