// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard?month=YYYY-MM requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_month", ErrBadMonth)
		return
	}
	standings, ok := h.deps.Leaderboard(r.Context(), month)
	if !ok {
		writeError(w, http.StatusNotFound, "month_unknown", ErrMonthUnknown)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
