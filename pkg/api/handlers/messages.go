package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"clinichat/pkg/auth"
	"clinichat/pkg/logger"
	"clinichat/pkg/models"
	"clinichat/pkg/utils"
	"clinichat/pkg/validation"
)

// RegisterMessages wires message posting and history routes.
func (h *Handlers) RegisterMessages(r *mux.Router) {
	r.HandleFunc("/threads/{threadID}/messages", h.postMessage).Methods("POST")
	r.HandleFunc("/threads/{threadID}/messages", h.listMessages).Methods("GET")
}

type postMessageReq struct {
	ID         string `json:"id,omitempty"`
	Text       string `json:"text"`
	SenderRole string `json:"sender_role"`
	SenderID   string `json:"sender_id,omitempty"`
}

func (h *Handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	var req postMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if uid := auth.UserIDFromContext(r.Context()); uid != "" {
		req.SenderID = uid
	}
	msg := models.Message{
		ID:         req.ID,
		ThreadID:   threadID,
		Text:       req.Text,
		SenderRole: req.SenderRole,
		SenderID:   req.SenderID,
	}
	if err := validation.ValidateMessage(msg); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	stored := h.store.PostMessage(msg)
	logger.Info("message_created", "thread", stored.ThreadID, "id", stored.ID, "role", stored.SenderRole)
	utils.JSONWrite(w, http.StatusOK, stored)
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	th, ok := h.store.GetThread(threadID)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "thread not found")
		return
	}
	limit := parseLimit(r, h.historyLimit)
	msgs := h.store.ListMessages(threadID, limit)
	utils.JSONWrite(w, http.StatusOK, map[string]any{
		"thread":   th,
		"messages": msgs,
	})
}
