// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// MonthsHandler handles month listing requests.
type MonthsHandler struct {
	deps Dependencies
}

// NewMonthsHandler creates a new months handler.
func NewMonthsHandler(deps Dependencies) *MonthsHandler {
	return &MonthsHandler{deps: deps}
}

// HandleGetMonths handles GET /months requests, returning the sorted
// month keys that have a computed leaderboard.
func (h *MonthsHandler) HandleGetMonths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Months(r.Context()))
}
