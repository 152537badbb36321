// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// BreakdownHandler serves the per-day and per-event score matrices.
type BreakdownHandler struct {
	deps Dependencies
}

// NewBreakdownHandler creates a new breakdown handler.
func NewBreakdownHandler(deps Dependencies) *BreakdownHandler {
	return &BreakdownHandler{deps: deps}
}

// HandleGetDaily handles GET /breakdown/daily?month=YYYY-MM requests.
func (h *BreakdownHandler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_month", ErrBadMonth)
		return
	}
	m, ok := h.deps.DailyBreakdown(r.Context(), month)
	if !ok {
		writeError(w, http.StatusNotFound, "month_unknown", ErrMonthUnknown)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleGetEvents handles GET /breakdown/events?month=YYYY-MM requests.
func (h *BreakdownHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_month", ErrBadMonth)
		return
	}
	m, ok := h.deps.EventBreakdown(r.Context(), month)
	if !ok {
		writeError(w, http.StatusNotFound, "month_unknown", ErrMonthUnknown)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
