package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	app "github.com/okian/blitzboard/internal/app"
	"github.com/okian/blitzboard/internal/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

const dailyCSV = `dailyDate,rank,playerId,name,score,avatarUrl
2024-06-03,1,p1,Avery,1200,https://cdn/a1.png
2024-06-03,2,p2,Brook,1100,https://cdn/a2.png
2024-07-01,1,p2,Brook,1300,https://cdn/a2.png
`

const eventsJSON = `[
  {
    "name": "Spring Cup",
    "date": "2024-06-10",
    "rankings": [
      {"rank": 1, "playerId": "p1", "name": "Avery", "points": 1500}
    ]
  }
]`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")
	events := filepath.Join(dir, "events.json")
	if err := os.WriteFile(daily, []byte(dailyCSV), 0o644); err != nil {
		t.Fatalf("write daily fixture: %v", err)
	}
	if err := os.WriteFile(events, []byte(eventsJSON), 0o644); err != nil {
		t.Fatalf("write events fixture: %v", err)
	}
	return daily, events
}

func TestServiceRefresh(t *testing.T) {
	Convey("Given a service over fixture files", t, func() {
		ctx := context.Background()
		daily, events := writeFixtures(t)
		svc := app.New(
			app.WithDailyScoresPath(daily),
			app.WithEventRankingsPath(events),
			app.WithConcurrency(2),
		)

		Convey("When started", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then the initial compute publishes a snapshot", func() {
				So(err, ShouldBeNil)
				So(svc.Months(ctx), ShouldResemble, []string{"2024-06", "2024-07"})
			})

			Convey("And the June leaderboard blends daily and event points", func() {
				standings, ok := svc.Leaderboard(ctx, "2024-06")
				So(ok, ShouldBeTrue)
				So(standings, ShouldHaveLength, 2)
				So(standings[0].PlayerID, ShouldEqual, "p1")
				So(standings[0].DailyPoints, ShouldEqual, 19)
				So(standings[0].EventPoints, ShouldEqual, 60)
				// Plus the shared one-day streak bonus.
				So(standings[0].TotalPoints, ShouldEqual, 104)
			})

			Convey("And breakdown matrices exist where data exists", func() {
				dm, ok := svc.DailyBreakdown(ctx, "2024-06")
				So(ok, ShouldBeTrue)
				So(dm.Dates, ShouldResemble, []string{"2024-06-03"})

				em, ok := svc.EventBreakdown(ctx, "2024-06")
				So(ok, ShouldBeTrue)
				So(em.Events, ShouldHaveLength, 1)

				_, ok = svc.EventBreakdown(ctx, "2024-07")
				So(ok, ShouldBeFalse)
			})

			Convey("And an unknown month reports absence", func() {
				_, ok := svc.Leaderboard(ctx, "2030-01")
				So(ok, ShouldBeFalse)
			})

			Convey("And stats expose the last run", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["months"], ShouldEqual, 2)
				So(stats["dailyRows"], ShouldEqual, 3)
				So(stats["eventRows"], ShouldEqual, 1)
				So(stats["run"], ShouldNotBeEmpty)
			})
		})

		Convey("When the data file changes between refreshes", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			first, _ := svc.Leaderboard(ctx, "2024-07")
			So(first, ShouldHaveLength, 1)

			extra := dailyCSV + "2024-07-02,1,p3,Cleo,900,https://cdn/a3.png\n"
			So(os.WriteFile(daily, []byte(extra), 0o644), ShouldBeNil)

			Convey("Then a refresh picks up the new rows atomically", func() {
				So(svc.Refresh(ctx), ShouldBeNil)
				second, ok := svc.Leaderboard(ctx, "2024-07")
				So(ok, ShouldBeTrue)
				So(second, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given a service pointed at a missing file", t, func() {
		svc := app.New(
			app.WithDailyScoresPath(filepath.Join(t.TempDir(), "nope.csv")),
			app.WithEventRankingsPath(filepath.Join(t.TempDir(), "nope.json")),
		)

		Convey("When started", func() {
			err := svc.Start(context.Background())

			Convey("Then startup fails with the ingest error", func() {
				So(err, ShouldWrap, ingest.ErrMissingFile)
			})
		})
	})

	Convey("Given a service that never started", t, func() {
		svc := app.New()
		ctx := context.Background()

		Convey("Then getters report empty state instead of panicking", func() {
			So(svc.Months(ctx), ShouldBeEmpty)
			_, ok := svc.Leaderboard(ctx, "2024-06")
			So(ok, ShouldBeFalse)
		})
	})
}
