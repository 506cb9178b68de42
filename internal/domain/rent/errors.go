package rent

import "errors"

var (
	ErrHouseholdNotFound        = errors.New("household not found")
	ErrHouseholdInactive        = errors.New("household is not active")
	ErrZeroTotalArea            = errors.New("total room area is zero")
	ErrZeroTotalHeadCount       = errors.New("total head count is zero")
	ErrZeroRoomHeadCount        = errors.New("room tenants have zero head count")
	ErrZeroTotalAvailableIncome = errors.New("total available income is zero")
	ErrStaleProfiles            = errors.New("household profiles are out of date")
)
