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

type requestHandlers struct {
	ResponseHandler response.ResponseHandler
	RequestSvc      RequestService
	MemberSvc       MemberService
}

func NewRequestHandlers(deps *Deps) *requestHandlers {
	return &requestHandlers{
		ResponseHandler: deps.ResponseHandler,
		RequestSvc:      deps.RequestSvc,
		MemberSvc:       deps.MemberSvc,
	}
}

// RequestRoutes serves one request kind: deposits, withdrawals, payments
// or loans.
func (h *requestHandlers) RequestRoutes(kind models.RequestKind) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List(kind))
	r.Post("/", h.Submit(kind))
	r.Post("/{memberId}/{txId}/approve", h.Approve(kind))
	r.Post("/{memberId}/{txId}/reject", h.Reject(kind))
	return r
}

// List returns every request of the kind for staff. Members must pass
// their own memberId.
func (h *requestHandlers) List(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		memberID := q.Get("memberId")
		if !isStaff(r) {
			if memberID == "" {
				h.ResponseHandler.HandleError(w, r, errs.NewValidationError("memberId is required"))
				return
			}
			if err := authorizeMember(r, h.MemberSvc, memberID); err != nil {
				h.ResponseHandler.HandleError(w, r, err)
				return
			}
		}

		apps, err := h.RequestSvc.List(r.Context(), kind, q.Get("status"), memberID)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, apps)
	}
}

func (h *requestHandlers) Submit(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body dto.SubmitApplicationRequest
		if err := decodeBody(w, r, &body); err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		if body.MemberID == "" {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("memberId is required"))
			return
		}
		if err := authorizeMember(r, h.MemberSvc, body.MemberID); err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}

		app, err := h.RequestSvc.Submit(r.Context(), kind, body)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, app)
	}
}

func (h *requestHandlers) Approve(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(h.ResponseHandler, w, r) {
			return
		}
		ids, err := pathIDs(r, "memberId", "txId")
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		app, err := h.RequestSvc.Approve(r.Context(), kind, ids[0], ids[1], middleware.Email(r.Context()))
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, app)
	}
}

func (h *requestHandlers) Reject(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(h.ResponseHandler, w, r) {
			return
		}
		ids, err := pathIDs(r, "memberId", "txId")
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		var body dto.RejectRequest
		if err := decodeBody(w, r, &body); err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		app, err := h.RequestSvc.Reject(r.Context(), kind,
			ids[0], ids[1], middleware.Email(r.Context()), body.Reason)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, app)
	}
}
