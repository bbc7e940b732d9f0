package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/response"
)

type loanHandlers struct {
	ResponseHandler response.ResponseHandler
	LoanSvc         LoanService
	ReminderSvc     ReminderService
}

func NewLoanHandlers(deps *Deps) *loanHandlers {
	return &loanHandlers{
		ResponseHandler: deps.ResponseHandler,
		LoanSvc:         deps.LoanSvc,
		ReminderSvc:     deps.ReminderSvc,
	}
}

// LoanRoutes adds the loan book routes onto r, which already serves loan
// applications.
func (h *loanHandlers) LoanRoutes(r chi.Router) chi.Router {
	r.Get("/current", h.Current)
	r.Get("/paid", h.Paid)
	r.Get("/current/{memberId}/{txId}/schedule", h.Schedule)
	r.Post("/reminders", h.SendReminders)
	return r
}

func (h *loanHandlers) Current(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	loans, err := h.LoanSvc.ListCurrentLoans(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loans)
}

func (h *loanHandlers) Paid(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	loans, err := h.LoanSvc.ListPaidLoans(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loans)
}

func (h *loanHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	ids, err := pathIDs(r, "memberId", "txId")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	rows, err := h.LoanSvc.Schedule(r.Context(), ids[0], ids[1])
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rows)
}

func (h *loanHandlers) SendReminders(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	res, err := h.ReminderSvc.Sweep(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
