// Command calc is the one-shot aggregation tool: it reads the scraped
// daily scores and event rankings, computes every month's leaderboard and
// breakdown matrices, and writes them as JSON documents for the site.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/okian/blitzboard/internal/domain/board"
	"github.com/okian/blitzboard/internal/domain/matrix"
	"github.com/okian/blitzboard/internal/domain/row"
	"github.com/okian/blitzboard/internal/ingest"
)

const outFilePermission = 0o644

var (
	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func main() {
	var (
		month   = flag.String("month", "", "Restrict output to one month (YYYY-MM)")
		through = flag.String("through", "", "Inclusive cutoff date (YYYY-MM-DD); requires -month")
		daily   = flag.String("daily", "daily_scores.csv", "Daily scores CSV path")
		events  = flag.String("event", "event_rankings.json", "Event rankings JSON path")
		outDir  = flag.String("out", ".", "Output directory for the JSON documents")
	)
	flag.Parse()

	if err := run(*month, *through, *daily, *events, *outDir); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(month, through, dailyPath, eventsPath, outDir string) error {
	if month != "" && !monthPattern.MatchString(month) {
		return fmt.Errorf("month must be provided as YYYY-MM")
	}
	if through != "" {
		if month == "" {
			return fmt.Errorf("-through can only be used together with -month")
		}
		if !datePattern.MatchString(through) {
			return fmt.Errorf("-through must be formatted as YYYY-MM-DD")
		}
		if !strings.HasPrefix(through, month+"-") {
			return fmt.Errorf("-through must fall within the selected month")
		}
	}

	records, err := ingest.ReadDailyScores(dailyPath)
	if err != nil {
		return err
	}
	rawEvents, err := ingest.ReadEventRankings(eventsPath)
	if err != nil {
		return err
	}

	dailyRows := row.NormalizeDaily(records)
	eventRows := row.NormalizeEvents(rawEvents)
	dailyByMonth := row.GroupByMonth(dailyRows)
	eventRowsByMonth := row.GroupByMonth(eventRows)
	eventsByMonth := row.GroupEventsByMonth(rawEvents)

	months := collectMonths(dailyByMonth, eventRowsByMonth)
	if month != "" {
		months = []string{month}
	}

	aggregator := board.New()
	points := make(map[string][]board.Standing)
	dailyBreakdowns := make(map[string]*matrix.DailyMatrix)
	eventBreakdowns := make(map[string]*matrix.EventMatrix)

	for _, m := range months {
		cutoff := row.MonthEnd(m)
		if through != "" && m == month {
			cutoff = through
		}
		standings := aggregator.Aggregate(dailyByMonth[m], eventRowsByMonth[m], cutoff)
		if len(standings) == 0 {
			continue
		}
		points[m] = standings
		if dm := matrix.BuildDaily(dailyByMonth[m], cutoff); dm != nil {
			dailyBreakdowns[m] = dm
		}
		if em := matrix.BuildEvents(eventsByMonth[m], cutoff); em != nil {
			eventBreakdowns[m] = em
		}
	}

	if err := writeDoc(filepath.Join(outDir, "points.json"), points); err != nil {
		return err
	}
	if err := writeDoc(filepath.Join(outDir, "daily_breakdown.json"), dailyBreakdowns); err != nil {
		return err
	}
	if err := writeDoc(filepath.Join(outDir, "event_breakdown.json"), eventBreakdowns); err != nil {
		return err
	}

	keys := make([]string, 0, len(points))
	for m := range points {
		keys = append(keys, m)
	}
	sort.Strings(keys)
	fmt.Printf("Calculated leaderboards for %d month(s): %s -> %s\n",
		len(keys), strings.Join(keys, ", "), outDir)
	return nil
}

func collectMonths(dailyByMonth map[string][]row.Row, eventsByMonth map[string][]row.Row) []string {
	set := make(map[string]struct{})
	for m := range dailyByMonth {
		set[m] = struct{}{}
	}
	for m := range eventsByMonth {
		set[m] = struct{}{}
	}
	months := make([]string, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

func writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), outFilePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
