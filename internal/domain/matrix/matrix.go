// Package matrix builds the player-by-date and player-by-event score
// grids used for breakdown views. The builders are read-only derivations
// over the same inputs the aggregator consumes and can be recomputed
// independently of it.
package matrix

import (
	"sort"

	"github.com/okian/blitzboard/internal/domain/row"
	"github.com/okian/blitzboard/internal/domain/scoring"
)

// Cell is one player's result in one date or event column.
type Cell struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Points int     `json:"points"`
}

// PlayerLine is one matrix row: a player's cells plus row totals.
type PlayerLine struct {
	PlayerID   string          `json:"playerId"`
	Name       string          `json:"name"`
	Avatar     string          `json:"avatar"`
	Cells      map[string]Cell `json:"scores"`
	Total      int             `json:"total"`
	TotalScore float64         `json:"totalScore"`
}

// DailyMatrix is the player-by-date breakdown for one month.
type DailyMatrix struct {
	Dates   []string     `json:"dates"`
	Players []PlayerLine `json:"players"`
}

// EventRef identifies one event column.
type EventRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// EventMatrix is the player-by-event breakdown for one month.
type EventMatrix struct {
	Events  []EventRef   `json:"events"`
	Players []PlayerLine `json:"players"`
}

// BuildDaily derives the daily breakdown from normalized daily rows dated
// through the cutoff. Returns nil when the filtered window holds no dates
// or no players.
//
// Repeated entries for the same (player, date) cell accumulate points and
// raw score; the rank of the first entry in canonical order (the best
// rank) is retained.
func BuildDaily(daily []row.Row, through string) *DailyMatrix {
	rows := make([]row.Row, 0, len(daily))
	for _, r := range daily {
		if r.Date <= through {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	row.Sort(rows)

	dateSet := make(map[string]struct{})
	lines := make(map[string]*PlayerLine)
	var order []string

	for _, r := range rows {
		dateSet[r.Date] = struct{}{}
		line, ok := lines[r.PlayerID]
		if !ok {
			line = &PlayerLine{
				PlayerID: r.PlayerID,
				Name:     r.Name,
				Avatar:   r.AvatarURL,
				Cells:    make(map[string]Cell),
			}
			lines[r.PlayerID] = line
			order = append(order, r.PlayerID)
		}
		if line.Avatar == "" && r.AvatarURL != "" {
			line.Avatar = r.AvatarURL
		}

		points := scoring.DailyPoints(r.Rank, scoring.IsBonusDay(r.Date))
		score := 0.0
		if r.Score != nil {
			score = *r.Score
		}
		cell, seen := line.Cells[r.Date]
		if !seen {
			cell.Rank = r.Rank
		}
		cell.Points += points
		cell.Score += score
		line.Cells[r.Date] = cell

		line.Total += points
		line.TotalScore += score
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	return &DailyMatrix{Dates: dates, Players: sortLines(lines, order)}
}

// BuildEvents derives the event breakdown from raw event records dated
// through the cutoff. Events are identified by row.EventID; duplicate ids
// collapse onto one column. Ranking entries that score zero points (rank
// 0 aggregates, ranks past 15) contribute no cell and no player row.
// Returns nil when no events or no players remain.
func BuildEvents(events []row.Event, through string) *EventMatrix {
	var refs []EventRef
	seenEvents := make(map[string]struct{})
	lines := make(map[string]*PlayerLine)
	var order []string

	for _, ev := range events {
		if len(ev.Date) != 10 || ev.Date > through {
			continue
		}
		name := ev.Name
		if name == "" {
			name = "Unknown"
		}
		id := row.EventID(name, ev.Date)
		if _, dup := seenEvents[id]; !dup {
			seenEvents[id] = struct{}{}
			refs = append(refs, EventRef{ID: id, Name: name, Date: ev.Date})
		}

		for _, entry := range ev.Rankings {
			rank := int(entry.Rank)
			points := scoring.EventPoints(rank)
			if points == 0 {
				continue
			}
			playerName := entry.Name
			if playerName == "" {
				playerName = "Unknown"
			}
			playerID := entry.PlayerID
			if playerID == "" {
				playerID = "name:" + playerName
			}
			line, ok := lines[playerID]
			if !ok {
				line = &PlayerLine{
					PlayerID: playerID,
					Name:     playerName,
					Avatar:   entry.Avatar,
					Cells:    make(map[string]Cell),
				}
				lines[playerID] = line
				order = append(order, playerID)
			}
			if line.Avatar == "" && entry.Avatar != "" {
				line.Avatar = entry.Avatar
			}

			score := 0.0
			if entry.Score != nil {
				score = *entry.Score
			}
			cell, seen := line.Cells[id]
			if !seen {
				cell.Rank = rank
				cell.Score = score
			}
			cell.Points += points
			line.Cells[id] = cell

			line.Total += points
			line.TotalScore += score
		}
	}

	if len(refs) == 0 || len(lines) == 0 {
		return nil
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Date < refs[j].Date
	})

	return &EventMatrix{Events: refs, Players: sortLines(lines, order)}
}

// sortLines orders matrix rows by (total desc, totalScore desc, name asc)
// with player id as a deterministic fallback. The insertion order slice
// guards against map iteration leaking into the output.
func sortLines(lines map[string]*PlayerLine, order []string) []PlayerLine {
	out := make([]PlayerLine, 0, len(order))
	for _, id := range order {
		out = append(out, *lines[id])
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}
