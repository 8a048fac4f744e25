package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"clinichat/pkg/auth"
	"clinichat/pkg/logger"
	"clinichat/pkg/store"
	"clinichat/pkg/utils"
)

// RegisterThreads wires thread lookup and creation routes.
func (h *Handlers) RegisterThreads(r *mux.Router) {
	r.HandleFunc("/threads", h.getOrCreateThread).Methods("POST")
	r.HandleFunc("/threads", h.listThreads).Methods("GET")
	r.HandleFunc("/threads/{id}", h.getThread).Methods("GET")
}

type createThreadReq struct {
	ThreadID string `json:"thread_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// getOrCreateThread resolves the caller's thread, minting one when
// none exists. A signed user identity overrides any user_id in the body.
func (h *Handlers) getOrCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadReq
	if r.Body != nil {
		// an empty body is fine for anonymous visitors
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if uid := auth.UserIDFromContext(r.Context()); uid != "" {
		req.UserID = uid
	}
	th := h.store.GetOrCreateThread(store.CreateOpts{
		PreferredID: req.ThreadID,
		UserID:      req.UserID,
		UserName:    req.UserName,
	})
	logger.Info("thread_resolved", "thread", th.ID, "user", th.UserID)
	utils.JSONWrite(w, http.StatusOK, th)
}

func (h *Handlers) listThreads(w http.ResponseWriter, r *http.Request) {
	if !isStaff(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	utils.JSONWrite(w, http.StatusOK, map[string]any{"threads": h.store.ListThreads()})
}

func (h *Handlers) getThread(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	th, ok := h.store.GetThread(id)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "thread not found")
		return
	}
	utils.JSONWrite(w, http.StatusOK, th)
}
