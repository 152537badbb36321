package row

import "time"

// MonthEnd returns the last calendar date of a YYYY-MM month, used as the
// default cutoff when no explicit through date is given. Malformed months
// return "".
func MonthEnd(month string) string {
	t, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 1, -1).Format("2006-01-02")
}

// GroupByMonth buckets rows by their month key. Rows with an empty month
// are ignored.
func GroupByMonth(rows []Row) map[string][]Row {
	out := make(map[string][]Row)
	for _, r := range rows {
		if r.Month == "" {
			continue
		}
		out[r.Month] = append(out[r.Month], r)
	}
	return out
}

// GroupEventsByMonth buckets raw events by the month of their final date.
// Events with a malformed date are ignored.
func GroupEventsByMonth(events []Event) map[string][]Event {
	out := make(map[string][]Event)
	for _, ev := range events {
		if len(ev.Date) != dateLen {
			continue
		}
		month := ev.Date[:7]
		out[month] = append(out[month], ev)
	}
	return out
}
