package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pelada-api/internal/application/schedule"
	"github.com/pelada-api/internal/domain"
)

// ConfigHandler handles notification configuration endpoints.
type ConfigHandler struct {
	svc schedule.Service
}

func NewConfigHandler(svc schedule.Service) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetBySession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req domain.PutNotificationConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := h.svc.PutForSession(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ClearSent removes one rule's sent record so the engine re-fires it.
func (h *ConfigHandler) ClearSent(w http.ResponseWriter, r *http.Request) {
	ruleNumber, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule number")
		return
	}
	if err := h.svc.ClearSent(r.Context(), chi.URLParam(r, "id"), ruleNumber); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "sent record cleared"})
}
