// Package board computes per-month leaderboards from normalized rows.
//
// An aggregation run is a pure computation: it takes the month's daily and
// event rows plus an inclusive cutoff date, and produces a sorted list of
// standings. No state survives between runs.
package board

import (
	"math"
	"sort"

	"github.com/okian/blitzboard/internal/domain/row"
	"github.com/okian/blitzboard/internal/domain/scoring"
)

const unknownName = "Unknown"

// Standing is one player's line on the monthly leaderboard.
type Standing struct {
	PlayerID           string  `json:"playerId"`
	Name               string  `json:"name"`
	Avatar             string  `json:"avatar"`
	DailyPoints        int     `json:"dailyPoints"`
	EventPoints        int     `json:"eventPoints"`
	DailyGamesPlayed   int     `json:"dailyGamesPlayed"`
	EventGamesPlayed   int     `json:"eventGamesPlayed"`
	AverageDailyRank   float64 `json:"averageDailyRank"`
	AverageDailyScore  float64 `json:"averageDailyScore"`
	AverageEventRank   float64 `json:"averageEventRank"`
	AverageEventScore  float64 `json:"averageEventScore"`
	GoldCount          int     `json:"goldCount"`
	SilverCount        int     `json:"silverCount"`
	BronzeCount        int     `json:"bronzeCount"`
	MedalCount         int     `json:"medalCount"`
	MedalBonus         int     `json:"medalBonus"`
	StreakBonus        int     `json:"streakBonus"`
	TotalPoints        int     `json:"totalPoints"`
	LongestTop10Streak int     `json:"longestTop10Streak"`

	// MedalSetRank is 1-5 for the first five players to collect all three
	// medal colors, 0 otherwise. Zero values are omitted from JSON; the
	// renderer treats a missing key as null.
	MedalSetRank        int    `json:"medalSetRank,omitempty"`
	MedalSetCompletedOn string `json:"medalSetCompletedOn,omitempty"`
}

// Aggregator computes monthly standings with configurable bonus tables.
type Aggregator struct {
	medalSetBonuses []int
	streakBonus     int
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMedalSetBonuses overrides the bonus ladder awarded in medal-set
// completion order. The slice length caps how many completers are ranked.
func WithMedalSetBonuses(bonuses []int) Option {
	return func(a *Aggregator) {
		if len(bonuses) > 0 {
			a.medalSetBonuses = bonuses
		}
	}
}

// WithStreakBonus overrides the flat bonus shared by every holder of the
// month's longest top-10 streak.
func WithStreakBonus(bonus int) Option {
	return func(a *Aggregator) {
		if bonus > 0 {
			a.streakBonus = bonus
		}
	}
}

// New constructs an Aggregator with the standard bonus tables.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		medalSetBonuses: []int{50, 40, 30, 20, 10},
		streakBonus:     25,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accumulator carries one player's running totals within a single run.
type accumulator struct {
	playerID string
	name     string
	avatar   string

	dailyPoints int
	eventPoints int
	medalBonus  int
	streakBonus int

	gold   int
	silver int
	bronze int

	medalSetRank        int
	medalSetCompletedOn string

	top10Dates map[string]struct{}

	dailyGames    int
	eventGames    int
	dailyRankSum  int
	eventRankSum  int
	dailyScoreSum float64
	eventScoreSum float64

	longestStreak int
}

// completion records the row at which a player first held all three medal
// colors. Completions are ranked globally by (date, seq).
type completion struct {
	playerID string
	date     string
	seq      int
}

// Aggregate computes the leaderboard for one month through the given
// inclusive cutoff date. Input slices are not mutated; rows dated after
// the cutoff are ignored.
func (a *Aggregator) Aggregate(daily, events []row.Row, through string) []Standing {
	filteredDaily := filterThrough(daily, through)
	filteredEvents := filterThrough(events, through)
	if len(filteredDaily) == 0 && len(filteredEvents) == 0 {
		return []Standing{}
	}
	row.Sort(filteredDaily)
	row.Sort(filteredEvents)

	players := make(map[string]*accumulator)
	var completions []completion

	upsert := func(r row.Row) *accumulator {
		p, ok := players[r.PlayerID]
		if !ok {
			p = &accumulator{
				playerID:   r.PlayerID,
				name:       r.Name,
				avatar:     r.AvatarURL,
				top10Dates: make(map[string]struct{}),
			}
			players[r.PlayerID] = p
			return p
		}
		// First non-default identity fields win and are never overwritten.
		if p.name == unknownName && r.Name != "" && r.Name != unknownName {
			p.name = r.Name
		}
		if p.avatar == "" && r.AvatarURL != "" {
			p.avatar = r.AvatarURL
		}
		return p
	}

	for _, r := range filteredDaily {
		p := upsert(r)
		p.dailyPoints += scoring.DailyPoints(r.Rank, scoring.IsBonusDay(r.Date))
		p.dailyGames++
		p.dailyRankSum += r.Rank
		if r.Score != nil {
			p.dailyScoreSum += *r.Score
		}
		if r.Rank <= 10 {
			p.top10Dates[r.Date] = struct{}{}
		}
		switch r.Rank {
		case 1:
			p.gold++
		case 2:
			p.silver++
		case 3:
			p.bronze++
		}
		if p.gold > 0 && p.silver > 0 && p.bronze > 0 && p.medalSetCompletedOn == "" {
			p.medalSetCompletedOn = r.Date
			completions = append(completions, completion{playerID: p.playerID, date: r.Date, seq: r.Seq})
		}
	}

	a.awardMedalSetBonuses(players, completions)

	for _, r := range filteredEvents {
		points := scoring.EventPoints(r.Rank)
		if points == 0 {
			// Aggregate ("all arenas") rows and out-of-range ranks never
			// touch an accumulator.
			continue
		}
		p := upsert(r)
		p.eventPoints += points
		p.eventGames++
		p.eventRankSum += r.Rank
		if r.Score != nil {
			p.eventScoreSum += *r.Score
		}
	}

	a.awardStreakBonuses(players)

	return finalize(players)
}

// awardMedalSetBonuses ranks first-completion events globally by
// (date, seq) and pays the bonus ladder in that order.
func (a *Aggregator) awardMedalSetBonuses(players map[string]*accumulator, completions []completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].date != completions[j].date {
			return completions[i].date < completions[j].date
		}
		return completions[i].seq < completions[j].seq
	})
	for i, c := range completions {
		if i >= len(a.medalSetBonuses) {
			break
		}
		p := players[c.playerID]
		p.medalBonus += a.medalSetBonuses[i]
		p.medalSetRank = i + 1
	}
}

// awardStreakBonuses grants the flat bonus to every player whose longest
// consecutive-day top-10 streak equals the month's maximum. Ties all win;
// a maximum of zero pays nobody.
func (a *Aggregator) awardStreakBonuses(players map[string]*accumulator) {
	best := 0
	for _, p := range players {
		p.longestStreak = streakLength(p.top10Dates)
		if p.longestStreak > best {
			best = p.longestStreak
		}
	}
	if best == 0 {
		return
	}
	for _, p := range players {
		if p.longestStreak == best {
			p.streakBonus += a.streakBonus
		}
	}
}

// streakLength returns the longest run of consecutive calendar days in a
// set of dates. Duplicate dates collapse by construction of the set.
func streakLength(dates map[string]struct{}) int {
	if len(dates) == 0 {
		return 0
	}
	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		if row.DayIndex(sorted[i])-row.DayIndex(sorted[i-1]) == 1 {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

func finalize(players map[string]*accumulator) []Standing {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{
			PlayerID:            p.playerID,
			Name:                p.name,
			Avatar:              p.avatar,
			DailyPoints:         p.dailyPoints,
			EventPoints:         p.eventPoints,
			DailyGamesPlayed:    p.dailyGames,
			EventGamesPlayed:    p.eventGames,
			AverageDailyRank:    average(float64(p.dailyRankSum), p.dailyGames),
			AverageDailyScore:   average(p.dailyScoreSum, p.dailyGames),
			AverageEventRank:    average(float64(p.eventRankSum), p.eventGames),
			AverageEventScore:   average(p.eventScoreSum, p.eventGames),
			GoldCount:           p.gold,
			SilverCount:         p.silver,
			BronzeCount:         p.bronze,
			MedalCount:          p.gold + p.silver + p.bronze,
			MedalBonus:          p.medalBonus,
			StreakBonus:         p.streakBonus,
			TotalPoints:         p.dailyPoints + p.eventPoints + p.medalBonus + p.streakBonus,
			LongestTop10Streak:  p.longestStreak,
			MedalSetRank:        p.medalSetRank,
			MedalSetCompletedOn: p.medalSetCompletedOn,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.DailyPoints != b.DailyPoints {
			return a.DailyPoints > b.DailyPoints
		}
		if a.EventPoints != b.EventPoints {
			return a.EventPoints > b.EventPoints
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		// Distinct players can share a display name; the id keeps the
		// ordering deterministic without changing the visible tie-break
		// chain.
		return a.PlayerID < b.PlayerID
	})
	return standings
}

// average rounds to two decimals using round half away from zero.
// Zero games yields 0, never NaN.
func average(sum float64, games int) float64 {
	if games == 0 {
		return 0
	}
	return math.Round(sum/float64(games)*100) / 100
}

func filterThrough(rows []row.Row, through string) []row.Row {
	out := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		if r.Date <= through {
			out = append(out, r)
		}
	}
	return out
}
