package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/config"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/stats"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/storage"
)

// API holds shared state for all handlers.
type API struct {
	Store    *config.Store
	Stats    *stats.Aggregator
	Letters  storage.Store // optional
	Registry *accesslog.Registry
}

func NewAPI(store *config.Store, agg *stats.Aggregator, letters storage.Store, registry *accesslog.Registry) *API {
	return &API{Store: store, Stats: agg, Letters: letters, Registry: registry}
}

// RegisterRoutes mounts all API endpoints on the given mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", a.cors(a.handleStats))
	mux.HandleFunc("/api/formats", a.cors(a.handleFormats))
	mux.HandleFunc("/api/deadletters", a.cors(a.handleDeadLetters))
	mux.HandleFunc("/healthz", a.cors(a.handleHealth))
}

// ── CORS middleware ──────────────────────────────────────────────

func (a *API) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// ── Handlers ─────────────────────────────────────────────────────

func (a *API) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Stats.Snapshot())
}

func (a *API) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Registry.Formats())
}

func (a *API) handleDeadLetters(w http.ResponseWriter, r *http.Request) {
	if a.Letters == nil {
		http.Error(w, "dead letter store disabled", http.StatusNotFound)
		return
	}

	service := r.URL.Query().Get("service")
	n := 20
	if q := r.URL.Query().Get("n"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			n = v
		}
	}

	letters, err := a.Letters.Recent(service, n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, letters)
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	services := 0
	if cfg := a.Store.Current(); cfg != nil {
		services = len(cfg.Services)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"services": services,
		"formats":  len(a.Registry.Formats()),
	})
}

// ── Helpers ──────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
