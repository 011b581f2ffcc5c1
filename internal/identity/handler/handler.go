// Package handler exposes the identity service over HTTP: the public auth
// endpoints proxied by the gateway and the internal user/role contract
// consumed by the employee service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"darum/internal/identity/models"
	"darum/internal/identity/service"
	"darum/internal/platform/middleware"
	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
	"darum/pkg/platform/httputil"
	"darum/pkg/requestcontext"
)

// Service is the identity surface the handler needs.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	WhoAmI(ctx context.Context, principal domain.Principal) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	AddRole(ctx context.Context, actor domain.Principal, userID, role string) (models.User, error)
	RemoveRole(ctx context.Context, actor domain.Principal, userID, role string) (models.User, error)
}

// Handler serves the identity routes.
type Handler struct {
	identity Service
	verifier middleware.TokenVerifier
	logger   *slog.Logger
}

// New creates the identity Handler.
func New(identity Service, verifier middleware.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		identity: identity,
		verifier: verifier,
		logger:   logger,
	}
}

// Register mounts the identity routes. The auth endpoints are public; the
// user/role contract sits behind the internal trust filter and requires an
// authenticated principal.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.InternalTrust(h.verifier, h.logger))
		r.Use(middleware.RequireAuthenticated(h.logger))

		r.Get("/whoami", h.handleWhoAmI)
		r.Get("/users/by-email", h.handleFindByEmail)
		r.Put("/users/{id}/roles", h.handleAddRole)
		r.Post("/users/{id}/roles/remove", h.handleRemoveRole)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.identity.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, authResponse(res))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, authResponse(res))
}

func (h *Handler) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.identity.WhoAmI(ctx, requestcontext.Principal(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, userResponse(user))
}

func (h *Handler) handleFindByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "query parameter email is required"))
		return
	}

	user, err := h.identity.FindByEmail(ctx, email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, userResponse(user))
}

func (h *Handler) handleAddRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleMutation(w, r, h.identity.AddRole)
}

func (h *Handler) handleRemoveRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleMutation(w, r, h.identity.RemoveRole)
}

func (h *Handler) handleRoleMutation(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, actor domain.Principal, userID, role string) (models.User, error),
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[RoleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "id")
	user, err := mutate(ctx, requestcontext.Principal(ctx), userID, req.Role)
	if err != nil {
		h.logger.WarnContext(ctx, "role mutation failed",
			"request_id", requestID,
			"user_id", userID,
			"role", req.Role,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, userResponse(user))
}
