package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
)

type settingsHandlers struct {
	ResponseHandler response.ResponseHandler
	SettingsSvc     SettingsService
}

func NewSettingsHandlers(deps *Deps) *settingsHandlers {
	return &settingsHandlers{
		ResponseHandler: deps.ResponseHandler,
		SettingsSvc:     deps.SettingsSvc,
	}
}

func (h *settingsHandlers) SettingsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	return r
}

// Get is open to every signed-in role; members need the loan catalogue.
func (h *settingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.SettingsSvc.GetSettings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, st)
}

func (h *settingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(h.ResponseHandler, w, r) {
		return
	}
	var body dto.UpdateSettingsRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	st, err := h.SettingsSvc.UpdateSettings(r.Context(), body, middleware.Email(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, st)
}
