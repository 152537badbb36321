// Package app provides the core business service that wires ingestion,
// aggregation, and breakdown building behind the HTTP API.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/okian/blitzboard/internal/domain/board"
	"github.com/okian/blitzboard/internal/domain/matrix"
	"github.com/okian/blitzboard/internal/domain/row"
	"github.com/okian/blitzboard/internal/ingest"
	"github.com/okian/blitzboard/pkg/logger"
	"github.com/okian/blitzboard/pkg/metrics"
)

// Snapshot is one recompute's complete output: every month's leaderboard
// and breakdown matrices. Snapshots are immutable once published.
type Snapshot struct {
	Months        []string
	Leaderboards  map[string][]board.Standing
	DailyMatrices map[string]*matrix.DailyMatrix
	EventMatrices map[string]*matrix.EventMatrix

	RunID      string
	ComputedAt time.Time
	DailyRows  int
	EventRows  int
}

// Service owns the compute pipeline and the latest published snapshot.
type Service struct {
	mu sync.RWMutex

	// Configuration
	dailyPath   string
	eventsPath  string
	refreshSpec string
	concurrency int
	aggregator  *board.Aggregator

	// State
	snapshot *Snapshot
	cron     *cron.Cron
	started  bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDailyScoresPath sets the daily scores CSV location.
func WithDailyScoresPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dailyPath = path
		}
	}
}

// WithEventRankingsPath sets the event rankings JSON location.
func WithEventRankingsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.eventsPath = path
		}
	}
}

// WithRefreshSpec sets the cron expression for scheduled recomputes.
// An empty spec disables scheduling.
func WithRefreshSpec(spec string) Option {
	return func(s *Service) {
		s.refreshSpec = spec
	}
}

// WithConcurrency bounds how many months are computed in parallel.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithAggregator replaces the standings aggregator, e.g. to apply
// configured bonus tables.
func WithAggregator(a *board.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dailyPath:   "daily_scores.csv",
		eventsPath:  "event_rankings.json",
		refreshSpec: "",
		concurrency: runtime.NumCPU(),
		aggregator:  board.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start performs the initial compute and schedules periodic refreshes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("app")
	}
	s.started = true
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	if s.refreshSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.refreshSpec, func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Error(context.Background(), "scheduled recompute failed", logger.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule refresh %q: %w", s.refreshSpec, err)
		}
		c.Start()
		s.mu.Lock()
		s.cron = c
		s.mu.Unlock()
		s.logger.Info(ctx, "scheduled recompute", logger.String("spec", s.refreshSpec))
	}
	return nil
}

// Stop halts the refresh schedule. In-flight computes finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	s.started = false
}

// Refresh re-reads both data files and recomputes every month's outputs,
// then atomically publishes the new snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()
	log := s.logger
	if log == nil {
		log = logger.Named("app")
	}
	log.Info(ctx, "recompute started", logger.String("run", runID))
	metrics.RecordComputeRun()

	snap, err := s.compute(ctx, runID)
	if err != nil {
		metrics.RecordComputeError()
		log.Error(ctx, "recompute failed", logger.String("run", runID), logger.Error(err))
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordComputeDuration(float64(elapsed.Milliseconds()))
	metrics.UpdateLastComputeUnix(snap.ComputedAt.Unix())
	metrics.UpdateMonthsComputed(len(snap.Months))
	for _, m := range snap.Months {
		metrics.UpdatePlayersPerMonth(m, len(snap.Leaderboards[m]))
	}

	log.Info(ctx, "recompute finished",
		logger.String("run", runID),
		logger.Int("months", len(snap.Months)),
		logger.Int("dailyRows", snap.DailyRows),
		logger.Int("eventRows", snap.EventRows),
		logger.Float64("elapsedMs", float64(elapsed.Milliseconds())),
	)
	return nil
}

// compute runs the full pipeline: ingest, normalize, and compute each
// month independently. Months fan out to a bounded worker group since no
// accumulator state crosses month boundaries.
func (s *Service) compute(ctx context.Context, runID string) (*Snapshot, error) {
	records, err := ingest.ReadDailyScores(s.dailyPath)
	if err != nil {
		return nil, err
	}
	events, err := ingest.ReadEventRankings(s.eventsPath)
	if err != nil {
		return nil, err
	}

	dailyRows := row.NormalizeDaily(records)
	eventRows := row.NormalizeEvents(events)
	metrics.RecordDailyRowsIngested(len(dailyRows))
	metrics.RecordEventRowsIngested(len(eventRows))
	dropped := len(records) - len(dailyRows)
	for _, ev := range events {
		dropped += len(ev.Rankings)
	}
	dropped -= len(eventRows)
	if dropped > 0 {
		metrics.RecordRowsDropped(dropped)
	}

	dailyByMonth := row.GroupByMonth(dailyRows)
	eventRowsByMonth := row.GroupByMonth(eventRows)
	eventsByMonth := row.GroupEventsByMonth(events)

	monthSet := make(map[string]struct{})
	for m := range dailyByMonth {
		monthSet[m] = struct{}{}
	}
	for m := range eventRowsByMonth {
		monthSet[m] = struct{}{}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	snap := &Snapshot{
		Leaderboards:  make(map[string][]board.Standing),
		DailyMatrices: make(map[string]*matrix.DailyMatrix),
		EventMatrices: make(map[string]*matrix.EventMatrix),
		RunID:         runID,
		ComputedAt:    time.Now().UTC(),
		DailyRows:     len(dailyRows),
		EventRows:     len(eventRows),
	}

	var (
		wg  sync.WaitGroup
		smu sync.Mutex
		sem = make(chan struct{}, s.concurrency)
	)
	for _, month := range months {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(month string) {
			defer wg.Done()
			defer func() { <-sem }()

			through := row.MonthEnd(month)
			standings := s.aggregator.Aggregate(dailyByMonth[month], eventRowsByMonth[month], through)
			if len(standings) == 0 {
				return
			}
			dm := matrix.BuildDaily(dailyByMonth[month], through)
			em := matrix.BuildEvents(eventsByMonth[month], through)

			smu.Lock()
			snap.Leaderboards[month] = standings
			if dm != nil {
				snap.DailyMatrices[month] = dm
			}
			if em != nil {
				snap.EventMatrices[month] = em
			}
			smu.Unlock()
		}(month)
	}
	wg.Wait()

	snap.Months = make([]string, 0, len(snap.Leaderboards))
	for m := range snap.Leaderboards {
		snap.Months = append(snap.Months, m)
	}
	sort.Strings(snap.Months)
	return snap, nil
}

// Months returns the sorted month keys with computed output.
func (s *Service) Months(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return []string{}
	}
	out := make([]string, len(s.snapshot.Months))
	copy(out, s.snapshot.Months)
	return out
}

// Leaderboard returns the standings for a month, if computed.
func (s *Service) Leaderboard(ctx context.Context, month string) ([]board.Standing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	standings, ok := s.snapshot.Leaderboards[month]
	return standings, ok
}

// DailyBreakdown returns the daily matrix for a month, if present.
func (s *Service) DailyBreakdown(ctx context.Context, month string) (*matrix.DailyMatrix, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	m, ok := s.snapshot.DailyMatrices[month]
	return m, ok
}

// EventBreakdown returns the event matrix for a month, if present.
func (s *Service) EventBreakdown(ctx context.Context, month string) (*matrix.EventMatrix, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	m, ok := s.snapshot.EventMatrices[month]
	return m, ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"concurrency": s.concurrency,
	}
	if s.snapshot != nil {
		stats["run"] = s.snapshot.RunID
		stats["computedAt"] = s.snapshot.ComputedAt.Format(time.RFC3339)
		stats["months"] = len(s.snapshot.Months)
		stats["dailyRows"] = s.snapshot.DailyRows
		stats["eventRows"] = s.snapshot.EventRows
	}
	return stats
}
