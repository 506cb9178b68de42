package analytics

import "errors"

var (
	ErrInvalidGroupBy = errors.New("invalid group_by")
	ErrInvalidRange   = errors.New("invalid date range")
)
