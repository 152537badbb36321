// Package ingest reads the scraped data files (daily scores CSV, event
// rankings JSON) into raw records for normalization. Any failure here is
// a hard stop reported to the caller before the scoring core runs.
package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrMissingFile = errors.New("input file not found")
	ErrBadHeader   = errors.New("unexpected daily scores header")
	ErrBadShape    = errors.New("event rankings must be a JSON array")
)
