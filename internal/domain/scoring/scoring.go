// Package scoring holds the rank-to-points tables for daily games and events.
//
// Both functions are pure and total: any integer rank maps to a point value,
// with 0 for ranks outside the scored range.
package scoring

import "time"

// dailyTable maps daily finishing ranks 1-10 to base points.
var dailyTable = map[int]int{
	1:  19,
	2:  15,
	3:  11,
	4:  7,
	5:  6,
	6:  5,
	7:  4,
	8:  3,
	9:  2,
	10: 1,
}

// Event points follow a linear formula over ranks 1-15.
const (
	eventPointsBase = 64
	eventPointsStep = 4
	eventMaxRank    = 15
)

// DailyPoints returns the points earned for a daily finishing rank.
// On a bonus day the base value is doubled. Ranks outside 1-10 score 0.
func DailyPoints(rank int, bonusDay bool) int {
	base := dailyTable[rank]
	if base == 0 {
		return 0
	}
	if bonusDay {
		return base * 2
	}
	return base
}

// EventPoints returns the points earned for an event finishing rank.
// Rank 0 is the "all arenas" aggregate row and scores 0, as does any
// rank above 15.
func EventPoints(rank int) int {
	if rank < 1 || rank > eventMaxRank {
		return 0
	}
	return eventPointsBase - rank*eventPointsStep
}

// IsBonusDay reports whether the given YYYY-MM-DD date falls on the
// designated bonus weekday (Saturday, evaluated in UTC). Malformed dates
// are never bonus days.
func IsBonusDay(date string) bool {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Saturday
}
