package bidding

import "errors"

var (
	ErrNoOpenRound         = errors.New("no open bidding round")
	ErrRoundNotFound       = errors.New("bidding round not found")
	ErrRoundAlreadyOpen    = errors.New("a bidding round is already open")
	ErrRoundNotOpen        = errors.New("bidding round is not open")
	ErrInvalidPeriod       = errors.New("period end is before period start")
	ErrHouseholdNotFound   = errors.New("household not found")
	ErrHouseholdInactive   = errors.New("household is not active")
	ErrBidAlreadySubmitted = errors.New("bid already submitted for this round")
	ErrBidNotFound         = errors.New("bid not found")
	ErrInvalidAmount       = errors.New("bid amount must not be negative")
	ErrRoundIncomplete     = errors.New("not every active household has bid")
	ErrZeroPledged         = errors.New("total pledged amount is zero")
	ErrNoPreviousBid       = errors.New("no previous bid for this period")
)
