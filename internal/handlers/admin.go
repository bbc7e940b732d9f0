package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	AdminSvc        AdminService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		AdminSvc:        deps.AdminSvc,
	}
}

// CoAdminRoutes is the main admin's management surface.
func (h *adminHandlers) CoAdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCoAdmins)
	r.Post("/", h.CreateCoAdmin)
	r.Get("/{id}", h.GetCoAdmin)
	r.Patch("/{id}", h.UpdateCoAdmin)
	r.Delete("/{id}", h.DeleteCoAdmin)
	return r
}

// AdminRoutes serves the signed-in admin's own account.
func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.Me)
	r.Put("/me/password", h.ChangePassword)
	return r
}

func (h *adminHandlers) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if middleware.Role(r.Context()) == models.RoleAdmin {
		return true
	}
	h.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("only the admin can manage co-admins"))
	return false
}

func (h *adminHandlers) ListCoAdmins(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	admins, err := h.AdminSvc.ListCoAdmins(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, admins)
}

func (h *adminHandlers) GetCoAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	admin, err := h.AdminSvc.GetCoAdmin(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, admin)
}

func (h *adminHandlers) CreateCoAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var body dto.CreateCoAdminRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	admin, err := h.AdminSvc.CreateCoAdmin(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, admin)
}

func (h *adminHandlers) UpdateCoAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var body dto.UpdateCoAdminRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	admin, err := h.AdminSvc.UpdateCoAdmin(r.Context(), id, body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, admin)
}

func (h *adminHandlers) DeleteCoAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.AdminSvc.DeleteCoAdmin(r.Context(), id, middleware.Email(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *adminHandlers) Me(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	admin, err := h.AdminSvc.Me(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, admin)
}

func (h *adminHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body dto.ChangePasswordRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	ctx := r.Context()
	if err := h.AdminSvc.ChangePassword(ctx, middleware.UID(ctx), middleware.AuthTime(ctx), body.NewPassword); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
