package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/blitzboard/internal/domain/row"
)

// Daily CSV column layout: dailyDate, rank, playerId, name, score, avatarUrl.
const (
	colDate = iota
	colRank
	colPlayerID
	colName
	colScore
	colAvatar
	dailyColumns
)

// ReadDailyScores reads the scraped daily scores CSV. The header must
// start with "dailyDate". Rows without an avatar URL are scrape
// artifacts (header repeats, promo rows) and are skipped.
func ReadDailyScores(path string) ([]row.DailyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("open daily scores %s: %w", path, err)
	}
	defer f.Close()
	return parseDailyScores(f, path)
}

func parseDailyScores(r io.Reader, path string) ([]row.DailyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []row.DailyRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read daily scores %s: %w", path, err)
	}
	if len(header) == 0 || header[0] != "dailyDate" {
		return nil, fmt.Errorf("%w in %s", ErrBadHeader, path)
	}

	var records []row.DailyRecord
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read daily scores %s: %w", path, err)
		}
		rec := row.DailyRecord{
			Date:      field(fields, colDate),
			Rank:      parseNumber(field(fields, colRank)),
			PlayerID:  field(fields, colPlayerID),
			Name:      field(fields, colName),
			Score:     parseScore(field(fields, colScore)),
			AvatarURL: field(fields, colAvatar),
		}
		if rec.AvatarURL == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// parseNumber parses a numeric field, returning NaN when unparseable so
// the normalizer can drop the row.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseScore parses a raw score that may carry thousand separators
// ("12,345"). Unparseable scores become nil, not zero.
func parseScore(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
