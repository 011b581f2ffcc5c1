package handler

// CreateEmployeeRequest is the body of POST /employees.
type CreateEmployeeRequest struct {
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// PromoteRequest is the body of the manager promotion endpoint. Department is
// where the new manager lands.
type PromoteRequest struct {
	Email      string `json:"email"`
	Department string `json:"department"`
}

// EmailRequest addresses a target by email only (demotion, admin grants).
type EmailRequest struct {
	Email string `json:"email"`
}

// StatusRequest is the body of the status update endpoint.
type StatusRequest struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// DepartmentRequest is the body of the department update endpoint.
type DepartmentRequest struct {
	Department string `json:"department"`
}
