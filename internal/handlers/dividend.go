package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type dividendHandlers struct {
	ResponseHandler response.ResponseHandler
	DividendSvc     DividendService
}

func NewDividendHandlers(deps *Deps) *dividendHandlers {
	return &dividendHandlers{
		ResponseHandler: deps.ResponseHandler,
		DividendSvc:     deps.DividendSvc,
	}
}

func (h *dividendHandlers) DividendRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{year}", h.Preview)
	r.Get("/{year}/record", h.Record)
	r.Post("/{year}/distribute", h.Distribute)
	return r
}

// Preview accepts an optional ?pool= override of the Yields pool.
func (h *dividendHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	var pool *float64
	if raw := r.URL.Query().Get("pool"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("pool must be a non-negative number"))
			return
		}
		pool = &v
	}

	preview, err := h.DividendSvc.Preview(r.Context(), year, pool)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, preview)
}

func (h *dividendHandlers) Record(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	rec, err := h.DividendSvc.Record(r.Context(), year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rec)
}

func (h *dividendHandlers) Distribute(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	rec, err := h.DividendSvc.Distribute(r.Context(), year, middleware.Email(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rec)
}
