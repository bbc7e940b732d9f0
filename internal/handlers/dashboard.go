package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/response"
)

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Summary)
	r.Get("/members/{id}", h.MemberSummary)
	r.Get("/overdue", h.Overdue)
	return r
}

func (h *dashboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	year, err := optionalInt(r, "year")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.DashboardSvc.Summary(r.Context(), year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *dashboardHandlers) MemberSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.DashboardSvc.MemberSummary(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *dashboardHandlers) Overdue(w http.ResponseWriter, r *http.Request) {
	limit, err := optionalInt(r, "limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	loans, err := h.DashboardSvc.OverdueLoans(r.Context(), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loans)
}
