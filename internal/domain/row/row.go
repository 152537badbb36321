// Package row normalizes heterogeneous raw inputs (daily score rows and
// event ranking rows) into a single record shape used by the aggregator
// and matrix builders.
package row

import (
	"math"
	"sort"
	"time"
)

// Seq spacing for event rows: eventIndex*eventSeqStride + rankingIndex
// preserves source order and keeps rankings grouped by event under sort.
const eventSeqStride = 1000

const dateLen = 10 // YYYY-MM-DD

// Row is the uniform internal record for one player in one game instance.
type Row struct {
	Date      string
	Month     string
	Rank      int
	PlayerID  string
	Name      string
	AvatarURL string
	Score     *float64
	Seq       int
}

// DailyRecord is a raw daily score row as read from the daily scores file.
// Rank is carried as float64 so unparseable values (NaN) survive until
// normalization decides to drop them.
type DailyRecord struct {
	Date      string
	Rank      float64
	PlayerID  string
	Name      string
	Score     *float64
	AvatarURL string
}

// Event is a raw tournament record with its final ranking table.
type Event struct {
	Name     string
	Date     string
	Rankings []Ranking
}

// Ranking is one player's entry within an event ranking table.
type Ranking struct {
	Rank     float64
	PlayerID string
	Name     string
	Score    *float64
	Avatar   string
}

// NormalizeDaily converts raw daily records into sorted rows. Records with
// a malformed date or a non-finite or sub-1 rank are dropped. Missing
// identity fields are defaulted rather than rejected.
func NormalizeDaily(records []DailyRecord) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec.Date) != dateLen {
			continue
		}
		if !validRank(rec.Rank) {
			continue
		}
		name := defaultName(rec.Name)
		rows = append(rows, Row{
			Date:      rec.Date,
			Month:     rec.Date[:7],
			Rank:      int(rec.Rank),
			PlayerID:  defaultPlayerID(rec.PlayerID, name),
			Name:      name,
			AvatarURL: rec.AvatarURL,
			Score:     rec.Score,
			Seq:       i,
		})
	}
	Sort(rows)
	return rows
}

// NormalizeEvents flattens event ranking tables into sorted rows. The Seq
// key encodes both the event position and the ranking position so rows
// from the same event stay adjacent under equal (date, rank).
func NormalizeEvents(events []Event) []Row {
	var rows []Row
	for ei, ev := range events {
		if len(ev.Date) != dateLen {
			continue
		}
		for ri, entry := range ev.Rankings {
			if !validRank(entry.Rank) {
				continue
			}
			name := defaultName(entry.Name)
			rows = append(rows, Row{
				Date:      ev.Date,
				Month:     ev.Date[:7],
				Rank:      int(entry.Rank),
				PlayerID:  defaultPlayerID(entry.PlayerID, name),
				Name:      name,
				AvatarURL: entry.Avatar,
				Score:     entry.Score,
				Seq:       ei*eventSeqStride + ri,
			})
		}
	}
	Sort(rows)
	return rows
}

// Sort orders rows by (date asc, rank asc, seq asc). This ordering is an
// invariant of the aggregation pipeline: it fixes medal-set completion
// order and all tie-breaks.
func Sort(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.Seq < b.Seq
	})
}

// DayIndex returns the number of UTC days since the Unix epoch for a
// YYYY-MM-DD date, or -1 when the date does not parse. Consecutive
// calendar days differ by exactly 1.
func DayIndex(date string) int {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return -1
	}
	return int(t.Unix() / (24 * 60 * 60))
}

func validRank(rank float64) bool {
	return !math.IsNaN(rank) && !math.IsInf(rank, 0) && rank >= 1
}

func defaultName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

// defaultPlayerID synthesizes a stable identity when the platform id is
// missing. Two unidentified entries with the same display name collide on
// purpose; the name is the only identity available.
func defaultPlayerID(id, name string) string {
	if id != "" {
		return id
	}
	return "name:" + name
}
