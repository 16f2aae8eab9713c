package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"studybuddy/models"
	"studybuddy/services/chat"
)

type Chatter interface {
	Chat(ctx context.Context, message, userID string) (string, error)
}

type ChatHandler struct {
	chatter Chatter
}

func NewChatHandler(chatter Chatter) *ChatHandler {
	return &ChatHandler{chatter: chatter}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat", h.Chat).Methods("POST")
}

// Chat answers with the reply in every case. A persistence failure is
// reported as 500 so clients know state may not have been saved.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Failed to decode chat request JSON", "err", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	reply, err := h.chatter.Chat(r.Context(), req.Message, req.UserID)
	if err != nil {
		if !errors.Is(err, chat.ErrInternal) {
			slog.Error("Chat returned an unexpected error", "user_id", req.UserID, "err", err)
		}
		writeJSONResponse(w, http.StatusInternalServerError, models.ChatResponse{Reply: reply})
		return
	}

	writeJSONResponse(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
