package api

import (
	"net/http"

	"github.com/okian/engage/internal/domain/types"
)

// StatsProvider reports session, lead and draw counts.
type StatsProvider interface {
	GetStats() types.ServiceStats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests. A stopped service still answers
// with its configuration and 200.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	if h.statsProvider == nil {
		writeFailure(w, NewKind("api.stats", ErrUnavailable))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
