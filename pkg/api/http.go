package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinichat/pkg/api/handlers"
	"clinichat/pkg/store"
)

// Options carries the tunables the HTTP layer needs from config.
type Options struct {
	// HistoryLimit is the default number of messages returned when a
	// client hydrates a thread without an explicit ?limit.
	HistoryLimit int
	// Heartbeat is the interval between SSE keepalive comments.
	Heartbeat time.Duration
}

// Handler builds the versioned API router. Authentication and rate
// limiting are applied by the caller as outer middleware.
func Handler(st *store.Store, opts Options) http.Handler {
	r := mux.NewRouter()

	h := handlers.New(st, handlers.Options{
		HistoryLimit: opts.HistoryLimit,
		Heartbeat:    opts.Heartbeat,
	})

	v1 := r.PathPrefix("/v1").Subrouter()
	h.RegisterThreads(v1)
	h.RegisterMessages(v1)
	h.RegisterStreams(v1)

	admin := v1.PathPrefix("/admin").Subrouter()
	h.RegisterAdmin(admin)

	return r
}
