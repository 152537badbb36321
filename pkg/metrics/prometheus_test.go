package metrics_test

import (
	"testing"

	"github.com/okian/blitzboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func metricNames(t *testing.T) map[string]struct{} {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]struct{}, len(families))
	for _, mf := range families {
		names[mf.GetName()] = struct{}{}
	}
	return names
}

func TestGlobalMetrics(t *testing.T) {
	Convey("Given the service registry", t, func() {
		Convey("When recording pipeline activity", func() {
			metrics.RecordComputeRun()
			metrics.RecordComputeDuration(12.5)
			metrics.UpdateLastComputeUnix(1717200000)
			metrics.UpdateMonthsComputed(2)
			metrics.RecordDailyRowsIngested(100)
			metrics.RecordEventRowsIngested(30)
			metrics.RecordRowsDropped(4)
			metrics.UpdatePlayersPerMonth("2024-06", 42)
			metrics.RecordHTTPRequest("leaderboard", "GET", "200")
			metrics.RecordHTTPRequestDuration("leaderboard", "GET", "200", 3.2)

			Convey("Then every collector is registered under the service namespace", func() {
				names := metricNames(t)
				for _, want := range []string{
					"blitzboard_league_compute_runs_total",
					"blitzboard_league_compute_duration_milliseconds",
					"blitzboard_league_last_compute_unix",
					"blitzboard_league_months_computed",
					"blitzboard_league_daily_rows_ingested_total",
					"blitzboard_league_event_rows_ingested_total",
					"blitzboard_league_rows_dropped_total",
					"blitzboard_league_players_per_month",
					"blitzboard_league_http_requests_total",
					"blitzboard_league_http_request_duration_milliseconds",
				} {
					_, ok := names[want]
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func TestManagerOptions(t *testing.T) {
	Convey("Given a manager with a custom namespace and registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("custom"),
			metrics.WithSubsystem("test"),
			metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			metrics.WithRegistry(reg),
		)

		Convey("Then collectors land in that registry, not the global one", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Counters report even at zero; vectors stay empty until used.
			So(len(families), ShouldBeGreaterThan, 0)
			for _, mf := range families {
				So(mf.GetName(), ShouldStartWith, "custom_test_")
			}
		})
	})
}
