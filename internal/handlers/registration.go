package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type registrationHandlers struct {
	ResponseHandler response.ResponseHandler
	RegistrationSvc RegistrationService
}

func NewRegistrationHandlers(deps *Deps) *registrationHandlers {
	return &registrationHandlers{
		ResponseHandler: deps.ResponseHandler,
		RegistrationSvc: deps.RegistrationSvc,
	}
}

// RegistrationRoutes leaves submission public; everything else runs
// behind protect.
func (h *registrationHandlers) RegistrationRoutes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	r.Group(func(r chi.Router) {
		r.Use(protect...)
		r.Get("/", h.List)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
	})
	return r
}

func (h *registrationHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var body dto.RegistrationRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	reg, err := h.RegistrationSvc.Submit(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, reg)
}

func (h *registrationHandlers) List(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	regs, err := h.RegistrationSvc.ListRegistrations(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, regs)
}

func (h *registrationHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	member, err := h.RegistrationSvc.Approve(r.Context(), id, middleware.Email(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, member)
}

func (h *registrationHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var body dto.RejectRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	reg, err := h.RegistrationSvc.Reject(r.Context(), id, middleware.Email(r.Context()), body.Reason)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reg)
}
