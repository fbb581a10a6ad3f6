package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pelada-api/internal/application/confirmation"
)

// ConfirmationHandler handles confirmation listing, the inbound response
// webhook and the administrative reset.
type ConfirmationHandler struct {
	svc           confirmation.Service
	webhookSecret string
}

func NewConfirmationHandler(svc confirmation.Service, webhookSecret string) *ConfirmationHandler {
	return &ConfirmationHandler{svc: svc, webhookSecret: webhookSecret}
}

func (h *ConfirmationHandler) List(w http.ResponseWriter, r *http.Request) {
	confs, err := h.svc.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confs)
}

type webhookRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Webhook receives inbound WhatsApp messages forwarded by the gateway and
// turns SIM/NÃO replies into confirmation decisions.
func (h *ConfirmationHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		got := r.Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid webhook secret")
			return
		}
	}
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone and message required")
		return
	}
	conf, err := h.svc.RecordResponse(r.Context(), req.Phone, req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

func (h *ConfirmationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	conf, err := h.svc.ResetToPending(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "playerID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}
