package handlers

import (
	"net/http"
	"strconv"
	"time"

	"clinichat/pkg/store"
)

// Options mirrors api.Options for the handler layer.
type Options struct {
	HistoryLimit int
	Heartbeat    time.Duration
}

// Handlers binds the chat store to the HTTP surface.
type Handlers struct {
	store        *store.Store
	historyLimit int
	heartbeat    time.Duration
}

func New(st *store.Store, opts Options) *Handlers {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = store.DefaultHistoryLimit
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 25 * time.Second
	}
	return &Handlers{store: st, historyLimit: opts.HistoryLimit, heartbeat: opts.Heartbeat}
}

func roleName(r *http.Request) string { return r.Header.Get("X-Role-Name") }

func isAdmin(r *http.Request) bool { return roleName(r) == "admin" }

// isStaff reports whether the caller may see cross-thread data.
func isStaff(r *http.Request) bool {
	switch roleName(r) {
	case "admin", "backend":
		return true
	}
	return false
}

// parseLimit reads ?limit, falling back to def on absence or garbage.
func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
