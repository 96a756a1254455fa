package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/service"
	"github.com/utafrali/SupplierGo/pkg/httputil"
	"github.com/utafrali/SupplierGo/pkg/middleware"
)

// AuthHandler handles HTTP requests for the register, login and
// add-claim endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterInput
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginInput
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// AddClaimToUser handles POST /addClaimToUser. The returned token belongs to
// the caller, not to the user receiving the claim.
func (h *AuthHandler) AddClaimToUser(w http.ResponseWriter, r *http.Request) {
	var req domain.AddClaimInput
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	callerID := middleware.UserIDFromContext(r.Context())
	resp, err := h.service.AddClaimToUser(r.Context(), callerID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}
