package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadMonth     = errors.New("month must be formatted as YYYY-MM")
	ErrMonthUnknown = errors.New("no data for requested month")
)
