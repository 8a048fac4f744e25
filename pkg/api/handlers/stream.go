package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinichat/pkg/logger"
	"clinichat/pkg/models"
	"clinichat/pkg/store"
	"clinichat/pkg/utils"
)

// RegisterStreams wires the SSE endpoints.
func (h *Handlers) RegisterStreams(r *mux.Router) {
	r.HandleFunc("/threads/{threadID}/events", h.threadEvents).Methods("GET")
}

func sseHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeSSEEvent(w http.ResponseWriter, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

type messageEnvelope struct {
	Message *models.Message `json:"message,omitempty"`
	Thread  *models.Thread  `json:"thread,omitempty"`
}

// ssePayload picks the wire shape for an event type.
func ssePayload(ev store.Event) any {
	switch ev.Type {
	case store.EventMessage:
		return ev.Message
	case store.EventThreadNew:
		return ev.Thread
	default:
		return messageEnvelope{Message: ev.Message, Thread: ev.Thread}
	}
}

// threadEvents streams a thread: recent history first, then live
// events until the client disconnects.
func (h *Handlers) threadEvents(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.JSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	limit := parseLimit(r, h.historyLimit)

	sseHeaders(w)
	for _, m := range h.store.ListMessages(threadID, limit) {
		m := m
		writeSSEEvent(w, store.EventMessage, &m)
	}
	flusher.Flush()

	events, cancel := h.store.Subscribe(threadID)
	defer cancel()

	h.pump(w, r, flusher, events, "thread", threadID)
}

// adminEvents streams store-wide activity for the staff dashboard.
func (h *Handlers) adminEvents(w http.ResponseWriter, r *http.Request) {
	if !isStaff(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.JSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sseHeaders(w)
	flusher.Flush()

	events, cancel := h.store.SubscribeAdmin()
	defer cancel()

	h.pump(w, r, flusher, events, "scope", "admin")
}

func (h *Handlers) pump(w http.ResponseWriter, r *http.Request, flusher http.Flusher, events <-chan store.Event, k, v string) {
	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	logger.Info("stream_opened", k, v, "remote", r.RemoteAddr)
	for {
		select {
		case <-r.Context().Done():
			logger.Info("stream_closed", k, v)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			writeSSEEvent(w, ev.Type, ssePayload(ev))
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
