package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pelada-api/internal/application/game"
	"github.com/pelada-api/internal/domain"
)

// GameHandler handles game and game-session CRUD endpoints.
type GameHandler struct {
	svc game.Service
}

func NewGameHandler(svc game.Service) *GameHandler {
	return &GameHandler{svc: svc}
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.svc.CreateGame(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.ListGames(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.svc.UpdateGame(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "game deleted"})
}

func (h *GameHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
