package matrix_test

import (
	"testing"

	"github.com/okian/blitzboard/internal/domain/matrix"
	"github.com/okian/blitzboard/internal/domain/row"
	. "github.com/smartystreets/goconvey/convey"
)

func fp(v float64) *float64 { return &v }

func dailyRow(date string, rank int, playerID string, score float64, seq int) row.Row {
	return row.Row{
		Date:     date,
		Month:    date[:7],
		Rank:     rank,
		PlayerID: playerID,
		Name:     playerID,
		Score:    fp(score),
		Seq:      seq,
	}
}

func TestBuildDaily(t *testing.T) {
	Convey("Given normalized daily rows across two dates", t, func() {
		rows := []row.Row{
			dailyRow("2024-06-03", 1, "p1", 100, 0),
			dailyRow("2024-06-03", 2, "p2", 90, 1),
			dailyRow("2024-06-04", 3, "p1", 80, 2),
		}

		Convey("When building the matrix", func() {
			m := matrix.BuildDaily(rows, "2024-06-30")

			Convey("Then dates come back sorted and complete", func() {
				So(m, ShouldNotBeNil)
				So(m.Dates, ShouldResemble, []string{"2024-06-03", "2024-06-04"})
			})

			Convey("And each player's cells carry rank, score, and points", func() {
				So(m.Players, ShouldHaveLength, 2)
				p1 := m.Players[0]
				So(p1.PlayerID, ShouldEqual, "p1")
				So(p1.Cells["2024-06-03"], ShouldResemble, matrix.Cell{Rank: 1, Score: 100, Points: 19})
				So(p1.Cells["2024-06-04"], ShouldResemble, matrix.Cell{Rank: 3, Score: 80, Points: 11})
				So(p1.Total, ShouldEqual, 30)
				So(p1.TotalScore, ShouldEqual, 180)
			})

			Convey("And players sort by total points descending", func() {
				So(m.Players[0].Total, ShouldBeGreaterThan, m.Players[1].Total)
			})
		})

		Convey("When the cutoff excludes the second date", func() {
			m := matrix.BuildDaily(rows, "2024-06-03")

			Convey("Then only the first date appears", func() {
				So(m.Dates, ShouldResemble, []string{"2024-06-03"})
				So(m.Players[0].Total, ShouldEqual, 19)
			})
		})
	})

	Convey("Given duplicate entries for one player on one date", t, func() {
		rows := []row.Row{
			dailyRow("2024-06-03", 1, "p1", 100, 0),
			dailyRow("2024-06-03", 4, "p1", 50, 1),
		}

		Convey("When building the matrix", func() {
			m := matrix.BuildDaily(rows, "2024-06-30")

			Convey("Then the cell keeps the best rank but accumulates points and score", func() {
				cell := m.Players[0].Cells["2024-06-03"]
				So(cell.Rank, ShouldEqual, 1)
				So(cell.Points, ShouldEqual, 26)
				So(cell.Score, ShouldEqual, 150)
			})
		})
	})

	Convey("Given a bonus-day row", t, func() {
		rows := []row.Row{dailyRow("2024-06-01", 1, "p1", 100, 0)} // Saturday

		Convey("Then cell points are doubled", func() {
			m := matrix.BuildDaily(rows, "2024-06-30")
			So(m.Players[0].Cells["2024-06-01"].Points, ShouldEqual, 38)
		})
	})

	Convey("Given no rows inside the window", t, func() {
		Convey("Then the matrix is nil", func() {
			So(matrix.BuildDaily(nil, "2024-06-30"), ShouldBeNil)
			rows := []row.Row{dailyRow("2024-06-10", 1, "p1", 100, 0)}
			So(matrix.BuildDaily(rows, "2024-06-05"), ShouldBeNil)
		})
	})
}

func TestBuildEvents(t *testing.T) {
	Convey("Given raw events with scoring and non-scoring entries", t, func() {
		events := []row.Event{
			{
				Name: "Summer Cup",
				Date: "2024-06-20",
				Rankings: []row.Ranking{
					{Rank: 1, PlayerID: "p1", Name: "Avery", Score: fp(1500)},
					{Rank: 0, PlayerID: "agg", Name: "All Arenas"},
					{Rank: 16, PlayerID: "p9", Name: "Niner"},
				},
			},
			{
				Name: "Spring Cup",
				Date: "2024-06-10",
				Rankings: []row.Ranking{
					{Rank: 2, PlayerID: "p1", Name: "Avery", Score: fp(1200)},
					{Rank: 3, PlayerID: "p2", Name: "Brook", Score: fp(1000)},
				},
			},
		}

		Convey("When building the matrix", func() {
			m := matrix.BuildEvents(events, "2024-06-30")

			Convey("Then event columns sort by date with derived ids", func() {
				So(m, ShouldNotBeNil)
				So(m.Events, ShouldHaveLength, 2)
				So(m.Events[0].ID, ShouldEqual, "spring-cup-2024-06-10")
				So(m.Events[1].ID, ShouldEqual, "summer-cup-2024-06-20")
			})

			Convey("And zero-point entries create no player rows", func() {
				So(m.Players, ShouldHaveLength, 2)
				for _, p := range m.Players {
					So(p.PlayerID, ShouldNotEqual, "agg")
					So(p.PlayerID, ShouldNotEqual, "p9")
				}
			})

			Convey("And totals span all of a player's events", func() {
				p1 := m.Players[0]
				So(p1.PlayerID, ShouldEqual, "p1")
				So(p1.Total, ShouldEqual, 116) // 60 + 56
				So(p1.TotalScore, ShouldEqual, 2700)
				So(p1.Cells["spring-cup-2024-06-10"].Rank, ShouldEqual, 2)
				So(p1.Cells["summer-cup-2024-06-20"].Points, ShouldEqual, 60)
			})
		})

		Convey("When the cutoff excludes the later event", func() {
			m := matrix.BuildEvents(events, "2024-06-15")

			Convey("Then only the earlier column remains", func() {
				So(m.Events, ShouldHaveLength, 1)
				So(m.Events[0].ID, ShouldEqual, "spring-cup-2024-06-10")
			})
		})
	})

	Convey("Given duplicate event names on the same date", t, func() {
		events := []row.Event{
			{Name: "Cup", Date: "2024-06-10", Rankings: []row.Ranking{{Rank: 1, PlayerID: "p1", Name: "Avery"}}},
			{Name: "Cup", Date: "2024-06-10", Rankings: []row.Ranking{{Rank: 2, PlayerID: "p2", Name: "Brook"}}},
		}

		Convey("Then both collapse onto one column", func() {
			m := matrix.BuildEvents(events, "2024-06-30")
			So(m.Events, ShouldHaveLength, 1)
			So(m.Players, ShouldHaveLength, 2)
		})
	})

	Convey("Given events with only non-scoring entries", t, func() {
		events := []row.Event{
			{Name: "Ghost Cup", Date: "2024-06-10", Rankings: []row.Ranking{{Rank: 0, PlayerID: "agg"}}},
		}

		Convey("Then the matrix is nil", func() {
			So(matrix.BuildEvents(events, "2024-06-30"), ShouldBeNil)
		})
	})

	Convey("Given an event with a malformed date", t, func() {
		events := []row.Event{
			{Name: "Cup", Date: "2024-06", Rankings: []row.Ranking{{Rank: 1, PlayerID: "p1"}}},
		}

		Convey("Then it is skipped entirely", func() {
			So(matrix.BuildEvents(events, "2024-06-30"), ShouldBeNil)
		})
	})
}
