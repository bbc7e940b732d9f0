package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportHandlers struct {
	ResponseHandler response.ResponseHandler
	ExportSvc       ExportService
}

func NewExportHandlers(deps *Deps) *exportHandlers {
	return &exportHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExportSvc:       deps.ExportSvc,
	}
}

func (h *exportHandlers) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{dataset}", h.Export)
	return r
}

// Export renders the workbook into memory first so a failure still gets a
// JSON error instead of a truncated download.
func (h *exportHandlers) Export(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")
	year, err := optionalInt(r, "year")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.ExportSvc.Export(r.Context(), dataset, year, &buf); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("export download interrupted", "dataset", dataset, "error", err)
	}
}
