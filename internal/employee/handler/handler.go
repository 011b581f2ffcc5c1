// Package handler exposes the employee service over HTTP. All routes sit
// behind the internal trust filter; role checks live in the service's policy
// layer, not here.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"darum/internal/employee/models"
	"darum/internal/employee/service"
	"darum/internal/platform/middleware"
	"darum/pkg/platform/httputil"
	"darum/pkg/requestcontext"
)

// Service is the employee surface the handler needs.
type Service interface {
	CreateEmployee(ctx context.Context, in service.CreateEmployeeInput) (service.EmployeeDetails, error)
	PromoteToManager(ctx context.Context, email, department string) (service.EmployeeDetails, error)
	DemoteManager(ctx context.Context, email string) (service.EmployeeDetails, error)
	PromoteToAdmin(ctx context.Context, email string) (service.EmployeeDetails, error)
	RemoveAdmin(ctx context.Context, email string) (service.EmployeeDetails, error)
	UpdateStatus(ctx context.Context, email, status string) (service.EmployeeDetails, error)
	UpdateDepartment(ctx context.Context, code, department string) (service.EmployeeDetails, error)
	GetByCode(ctx context.Context, code string) (models.Employee, error)
	MyDetails(ctx context.Context) (models.Employee, error)
	ListMyDepartment(ctx context.Context) ([]models.Employee, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
	ListDepartments() []models.Department
}

// Handler serves the employee routes.
type Handler struct {
	employees Service
	verifier  middleware.TokenVerifier
	logger    *slog.Logger
}

// New creates the employee Handler.
func New(employees Service, verifier middleware.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		employees: employees,
		verifier:  verifier,
		logger:    logger,
	}
}

// Register mounts the employee routes behind the internal trust filter.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.InternalTrust(h.verifier, h.logger))
		r.Use(middleware.RequireAuthenticated(h.logger))

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.handleCreate)
			r.Get("/", h.handleListAll)
			r.Get("/departments", h.handleListDepartments)
			r.Get("/me", h.handleMyDetails)
			r.Get("/my-department", h.handleListMyDepartment)
			r.Put("/promote", h.handlePromote)
			r.Put("/demote", h.handleDemote)
			r.Put("/promote-admin", h.handlePromoteAdmin)
			r.Put("/remove-admin", h.handleRemoveAdmin)
			r.Put("/status", h.handleUpdateStatus)
			r.Get("/{code}", h.handleGetByCode)
			r.Put("/{code}/department", h.handleUpdateDepartment)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[CreateEmployeeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	details, err := h.employees.CreateEmployee(ctx, service.CreateEmployeeInput{
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, detailsResponse(details))
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[PromoteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDetails(w, r)(h.employees.PromoteToManager(ctx, req.Email, req.Department))
}

func (h *Handler) handleDemote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[EmailRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDetails(w, r)(h.employees.DemoteManager(ctx, req.Email))
}

func (h *Handler) handlePromoteAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[EmailRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDetails(w, r)(h.employees.PromoteToAdmin(ctx, req.Email))
}

func (h *Handler) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[EmailRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDetails(w, r)(h.employees.RemoveAdmin(ctx, req.Email))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[StatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respondDetails(w, r)(h.employees.UpdateStatus(ctx, req.Email, req.Status))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[DepartmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")
	h.respondDetails(w, r)(h.employees.UpdateDepartment(ctx, code, req.Department))
}

// respondDetails is the shared tail of every mutation endpoint.
func (h *Handler) respondDetails(w http.ResponseWriter, r *http.Request) func(service.EmployeeDetails, error) {
	return func(details service.EmployeeDetails, err error) {
		if err != nil {
			h.logger.WarnContext(r.Context(), "employee mutation failed",
				"request_id", requestcontext.RequestID(r.Context()),
				"path", r.URL.Path,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, detailsResponse(details))
	}
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employees.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employeeResponse(emp))
}

func (h *Handler) handleMyDetails(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employees.MyDetails(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employeeResponse(emp))
}

func (h *Handler) handleListMyDepartment(w http.ResponseWriter, r *http.Request) {
	emps, err := h.employees.ListMyDepartment(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employeeListResponse(emps))
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	emps, err := h.employees.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employeeListResponse(emps))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.employees.ListDepartments())
}
