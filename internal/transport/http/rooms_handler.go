package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
)

// RoomsHandler exposes room creation and snapshot fetch over plain HTTP.
// Gameplay itself runs over the websocket endpoint.
type RoomsHandler struct {
	service *app.RoomService
}

func NewRoomsHandler(service *app.RoomService) *RoomsHandler {
	return &RoomsHandler{service: service}
}

type createRoomRequest struct {
	Name     string              `json:"name"`
	PackID   string              `json:"packId"`
	Settings domain.RoomSettings `json:"settings"`
}

// Create handles POST /rooms.
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PackID == "" {
		http.Error(w, "packId is required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.CreateRoom(r.Context(), req.Name, req.PackID, req.Settings)
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// Get handles GET /rooms/{id}.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
