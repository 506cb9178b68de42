package schedule

import "errors"

var (
	ErrScheduleNotFound  = errors.New("no schedule covers the date")
	ErrHouseholdNotFound = errors.New("household not found")
	ErrInvalidPeriod     = errors.New("period end is before period start")
)
