package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pelada-api/internal/application/report"
)

// ReportHandler handles attendance report exports.
type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
