package handler

import (
	"errors"
	"net/http"

	"github.com/actuallystonmai/travel-recommender/internal/logging"
	"github.com/actuallystonmai/travel-recommender/internal/stats"
)

// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Hello World"})
}

// GET /api/health, /api/health_api
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(w, http.StatusServiceUnavailable, "stats_disabled", "Stats are not enabled")
		return
	}

	counts, err := h.stats.Counts(r.Context())
	if err != nil {
		if errors.Is(err, stats.ErrDisabled) {
			writeError(w, http.StatusServiceUnavailable, "stats_disabled", "Stats are not enabled")
			return
		}
		logging.Error().Err(err).Msg("[handler] read stats")
		writeError(w, http.StatusServiceUnavailable, "stats_unavailable", "Stats store is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{Sources: counts})
}
