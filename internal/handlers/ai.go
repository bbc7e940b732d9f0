package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type aiHandlers struct {
	ResponseHandler response.ResponseHandler
	AISvc           AIService
}

func NewAIHandlers(deps *Deps) *aiHandlers {
	return &aiHandlers{
		ResponseHandler: deps.ResponseHandler,
		AISvc:           deps.AISvc,
	}
}

func (h *aiHandlers) AIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/query", h.Query)
	return r
}

// Query leaves sessionId optional; the service starts a new session when
// it is empty.
func (h *aiHandlers) Query(w http.ResponseWriter, r *http.Request) {
	if h.AISvc == nil {
		h.ResponseHandler.WriteError(w, r, http.StatusServiceUnavailable, "service_unavailable", "the assistant is not configured")
		return
	}
	var body dto.AIQueryRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if body.Message == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("message is required"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.AISvc.Query(r.Context(), uid, body.SessionID, body.Message)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
