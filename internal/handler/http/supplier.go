package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/service"
	"github.com/utafrali/SupplierGo/pkg/httputil"
)

// SupplierHandler handles HTTP requests for supplier endpoints.
type SupplierHandler struct {
	service *service.SupplierService
	logger  *slog.Logger
}

// NewSupplierHandler creates a new supplier HTTP handler.
func NewSupplierHandler(svc *service.SupplierService, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{service: svc, logger: logger}
}

// List handles GET /suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	views := make([]domain.SupplierView, 0, len(suppliers))
	for _, s := range suppliers {
		views = append(views, s.View())
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: views})
}

// Get handles GET /supplier/{id}
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	supplier, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: supplier.View()})
}

// Create handles POST /supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierInput
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	supplier, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/supplier/"+supplier.ID().String())
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: supplier.View()})
}

// Update handles PUT /supplier/{id}
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.SupplierInput
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /supplier/{id}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
