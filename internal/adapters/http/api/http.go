// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/okian/blitzboard/internal/domain/board"
	"github.com/okian/blitzboard/internal/domain/matrix"
)

// Dependencies bundles the read operations the handlers need. Keeping
// this an interface decouples the handler layer from the app package.
type Dependencies interface {
	Months(ctx context.Context) []string
	Leaderboard(ctx context.Context, month string) ([]board.Standing, bool)
	DailyBreakdown(ctx context.Context, month string) (*matrix.DailyMatrix, bool)
	EventBreakdown(ctx context.Context, month string) (*matrix.EventMatrix, bool)
}

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	monthsHandler      *MonthsHandler
	leaderboardHandler *LeaderboardHandler
	breakdownHandler   *BreakdownHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		monthsHandler:      NewMonthsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		breakdownHandler:   NewBreakdownHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/months", MetricsMiddleware(s.monthsHandler.HandleGetMonths, "months"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/breakdown/daily", MetricsMiddleware(s.breakdownHandler.HandleGetDaily, "breakdown_daily"))
	mux.HandleFunc("/breakdown/events", MetricsMiddleware(s.breakdownHandler.HandleGetEvents, "breakdown_events"))
}

var monthKey = regexp.MustCompile(`^\d{4}-\d{2}$`)

// monthParam extracts and validates the ?month query parameter.
func monthParam(r *http.Request) (string, bool) {
	month := r.URL.Query().Get("month")
	return month, monthKey.MatchString(month)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
