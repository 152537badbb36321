package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/blitzboard/internal/domain/board"
	. "github.com/smartystreets/goconvey/convey"
)

const dailyFixture = `dailyDate,rank,playerId,name,score,avatarUrl
2024-06-03,1,p1,Avery,1200,https://cdn/a1.png
2024-06-03,2,p2,Brook,1100,https://cdn/a2.png
2024-06-04,1,p2,Brook,1250,https://cdn/a2.png
2024-07-01,1,p1,Avery,1300,https://cdn/a1.png
`

const eventsFixture = `[
  {
    "name": "Spring Cup",
    "date": "2024-06-10",
    "rankings": [
      {"rank": 1, "playerId": "p1", "name": "Avery", "points": 1500}
    ]
  }
]`

func writeFixtures(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")
	events := filepath.Join(dir, "events.json")
	if err := os.WriteFile(daily, []byte(dailyFixture), 0o644); err != nil {
		t.Fatalf("write daily fixture: %v", err)
	}
	if err := os.WriteFile(events, []byte(eventsFixture), 0o644); err != nil {
		t.Fatalf("write events fixture: %v", err)
	}
	return daily, events, dir
}

func readPoints(t *testing.T, dir string) map[string][]board.Standing {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "points.json"))
	if err != nil {
		t.Fatalf("read points.json: %v", err)
	}
	var points map[string][]board.Standing
	if err := json.Unmarshal(data, &points); err != nil {
		t.Fatalf("decode points.json: %v", err)
	}
	return points
}

func TestRun(t *testing.T) {
	Convey("Given fixture data files", t, func() {
		daily, events, dir := writeFixtures(t)

		Convey("When running over all months", func() {
			err := run("", "", daily, events, dir)

			Convey("Then all three documents are written", func() {
				So(err, ShouldBeNil)
				for _, name := range []string{"points.json", "daily_breakdown.json", "event_breakdown.json"} {
					_, statErr := os.Stat(filepath.Join(dir, name))
					So(statErr, ShouldBeNil)
				}
			})

			Convey("And the points document holds both months", func() {
				So(err, ShouldBeNil)
				points := readPoints(t, dir)
				So(points, ShouldHaveLength, 2)
				So(points["2024-06"][0].PlayerID, ShouldEqual, "p1")
				So(points["2024-06"][0].TotalPoints, ShouldEqual, 79)
				So(points["2024-07"], ShouldHaveLength, 1)
			})
		})

		Convey("When restricted to one month", func() {
			err := run("2024-07", "", daily, events, dir)

			Convey("Then only that month is emitted", func() {
				So(err, ShouldBeNil)
				points := readPoints(t, dir)
				So(points, ShouldHaveLength, 1)
				So(points["2024-07"], ShouldHaveLength, 1)
			})
		})

		Convey("When a mid-month cutoff is applied", func() {
			err := run("2024-06", "2024-06-03", daily, events, dir)

			Convey("Then later rows and events are excluded", func() {
				So(err, ShouldBeNil)
				points := readPoints(t, dir)
				june := points["2024-06"]
				So(june, ShouldHaveLength, 2)
				for _, s := range june {
					So(s.EventPoints, ShouldEqual, 0)
					if s.PlayerID == "p2" {
						So(s.DailyPoints, ShouldEqual, 15)
					}
				}
			})
		})

		Convey("When flags are inconsistent", func() {
			Convey("Then a malformed month is rejected", func() {
				So(run("June", "", daily, events, dir), ShouldNotBeNil)
			})
			Convey("Then -through without -month is rejected", func() {
				So(run("", "2024-06-10", daily, events, dir), ShouldNotBeNil)
			})
			Convey("Then a malformed -through is rejected", func() {
				So(run("2024-06", "junk", daily, events, dir), ShouldNotBeNil)
			})
			Convey("Then -through outside the month is rejected", func() {
				So(run("2024-06", "2024-07-01", daily, events, dir), ShouldNotBeNil)
			})
		})

		Convey("When the daily file is missing", func() {
			err := run("", "", filepath.Join(dir, "nope.csv"), events, dir)

			Convey("Then the run fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
