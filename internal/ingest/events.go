package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/okian/blitzboard/internal/domain/row"
)

// Wire shapes for event_rankings.json. Rank and points arrive as either
// numbers or strings depending on the scraper run, so both decode through
// RawMessage.
type eventDoc struct {
	Name     string       `json:"name"`
	Date     string       `json:"date"`
	Rankings []rankingDoc `json:"rankings"`
}

type rankingDoc struct {
	Rank     json.RawMessage `json:"rank"`
	Name     string          `json:"name"`
	PlayerID string          `json:"playerId"`
	Points   json.RawMessage `json:"points"`
	Avatar   string          `json:"avatar"`
}

// ReadEventRankings reads the scraped event rankings JSON. An empty file
// yields no events; any other shape than a JSON array is an error.
func ReadEventRankings(path string) ([]row.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("read event rankings %s: %w", path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []row.Event{}, nil
	}

	var docs []eventDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadShape, path)
	}

	events := make([]row.Event, 0, len(docs))
	for _, doc := range docs {
		ev := row.Event{
			Name:     doc.Name,
			Date:     doc.Date,
			Rankings: make([]row.Ranking, 0, len(doc.Rankings)),
		}
		for _, entry := range doc.Rankings {
			ev.Rankings = append(ev.Rankings, row.Ranking{
				Rank:     rawNumber(entry.Rank),
				PlayerID: entry.PlayerID,
				Name:     entry.Name,
				Score:    rawScore(entry.Points),
				Avatar:   entry.Avatar,
			})
		}
		events = append(events, ev)
	}
	return events, nil
}

// rawNumber decodes a JSON value that may be a number or a numeric
// string. Anything else comes back NaN for the normalizer to drop.
func rawNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseNumber(strings.ReplaceAll(s, ",", ""))
	}
	return math.NaN()
}

func rawScore(raw json.RawMessage) *float64 {
	v := rawNumber(raw)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
