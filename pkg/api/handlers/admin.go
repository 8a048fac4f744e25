package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinichat/pkg/logger"
	"clinichat/pkg/utils"
)

// RegisterAdmin wires the operator endpoints. Routes are reachable by
// backend keys at the gateway; mutating ones additionally require the
// admin role here.
func (h *Handlers) RegisterAdmin(r *mux.Router) {
	r.HandleFunc("/health", h.adminHealth).Methods("GET")
	r.HandleFunc("/stats", h.adminStats).Methods("GET")
	r.HandleFunc("/threads", h.adminThreads).Methods("GET")
	r.HandleFunc("/events", h.adminEvents).Methods("GET")
	r.HandleFunc("/sweep", h.adminSweep).Methods("POST")
	r.HandleFunc("/cleanup", h.adminCleanup).Methods("POST")
}

func (h *Handlers) adminHealth(w http.ResponseWriter, r *http.Request) {
	if !isStaff(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	if !isStaff(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	utils.JSONWrite(w, http.StatusOK, h.store.Snapshot())
}

// adminThreads lists every thread, archived included.
func (h *Handlers) adminThreads(w http.ResponseWriter, r *http.Request) {
	if !isStaff(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	utils.JSONWrite(w, http.StatusOK, map[string]any{"threads": h.store.ListAllThreads()})
}

// adminSweep archives idle threads immediately instead of waiting for
// the next scheduled tick.
func (h *Handlers) adminSweep(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.JSONError(w, http.StatusForbidden, "admin only")
		return
	}
	n := h.store.SweepInactive(time.Now())
	logger.Info("manual_sweep", "archived", n)
	utils.JSONWrite(w, http.StatusOK, map[string]int{"archived": n})
}

// adminCleanup hard-evicts threads past the purge horizon.
func (h *Handlers) adminCleanup(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.JSONError(w, http.StatusForbidden, "admin only")
		return
	}
	threads, messages := h.store.Purge(time.Now())
	logger.Info("manual_cleanup", "threads", threads, "messages", messages)
	utils.JSONWrite(w, http.StatusOK, map[string]int{"threads": threads, "messages": messages})
}
