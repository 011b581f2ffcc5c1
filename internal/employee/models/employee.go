// Package models defines the employee service's domain records.
package models

import (
	"strings"
	"time"
)

// Department is the organizational unit an employee belongs to.
type Department string

const (
	DepartmentIT         Department = "IT"
	DepartmentHR         Department = "HR"
	DepartmentFinance    Department = "FINANCE"
	DepartmentSales      Department = "SALES"
	DepartmentMarketing  Department = "MARKETING"
	DepartmentOperations Department = "OPERATIONS"
	DepartmentSupport    Department = "SUPPORT"
)

// AllDepartments lists every valid department.
func AllDepartments() []Department {
	return []Department{
		DepartmentIT,
		DepartmentHR,
		DepartmentFinance,
		DepartmentSales,
		DepartmentMarketing,
		DepartmentOperations,
		DepartmentSupport,
	}
}

// ParseDepartment parses a department tag case-insensitively.
func ParseDepartment(tag string) (Department, bool) {
	candidate := Department(strings.ToUpper(strings.TrimSpace(tag)))
	for _, d := range AllDepartments() {
		if d == candidate {
			return d, true
		}
	}
	return "", false
}

// Status is an employee's lifecycle state.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// ParseStatus parses a status tag case-insensitively.
func ParseStatus(tag string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(tag)))
	switch candidate {
	case StatusActive, StatusInactive, StatusSuspended:
		return candidate, true
	}
	return "", false
}

// Employee is a personnel record. IdentityID is a weak back-reference to the
// identity service's user record, used only for lookups; role state lives
// exclusively in the identity service. Email is a denormalized copy of the
// identity's email at creation time.
type Employee struct {
	ID         string
	Code       string
	IdentityID string
	Email      string
	FirstName  string
	LastName   string
	Department Department
	Position   string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins the employee's names for display and notifications.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
