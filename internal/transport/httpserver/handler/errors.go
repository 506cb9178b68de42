package handler

import (
	"errors"
	"net/http"

	analyticsdomain "housing-coop-go/internal/domain/analytics"
	biddingdomain "housing-coop-go/internal/domain/bidding"
	expensesdomain "housing-coop-go/internal/domain/expenses"
	householddomain "housing-coop-go/internal/domain/household"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
	rentdomain "housing-coop-go/internal/domain/rent"
	scheduledomain "housing-coop-go/internal/domain/schedule"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{householddomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found"},
	{ledgerdomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found"},
	{biddingdomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found"},
	{scheduledomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found"},
	{rentdomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found"},
	{householddomain.ErrCategoryNotFound, http.StatusNotFound, "category_not_found"},
	{householddomain.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{householddomain.ErrRoomNotFound, http.StatusNotFound, "room_not_found"},
	{householddomain.ErrTenantNotFound, http.StatusNotFound, "tenant_not_found"},
	{ledgerdomain.ErrFundNotFound, http.StatusNotFound, "fund_not_found"},
	{ledgerdomain.ErrTransactionNotFound, http.StatusNotFound, "transaction_not_found"},
	{biddingdomain.ErrNoOpenRound, http.StatusNotFound, "no_open_round"},
	{biddingdomain.ErrRoundNotFound, http.StatusNotFound, "round_not_found"},
	{biddingdomain.ErrNoPreviousBid, http.StatusNotFound, "no_previous_bid"},
	{expensesdomain.ErrExpenseNotFound, http.StatusNotFound, "expense_not_found"},

	{householddomain.ErrHouseholdNameTaken, http.StatusConflict, "household_name_taken"},
	{householddomain.ErrCategoryNameTaken, http.StatusConflict, "category_name_taken"},
	{householddomain.ErrRoomNameTaken, http.StatusConflict, "room_name_taken"},
	{ledgerdomain.ErrFundNameTaken, http.StatusConflict, "fund_name_taken"},
	{ledgerdomain.ErrAlreadyConfirmed, http.StatusConflict, "already_confirmed"},
	{ledgerdomain.ErrTransactionConfirmed, http.StatusConflict, "transaction_confirmed"},
	{ledgerdomain.ErrTransferIncomplete, http.StatusConflict, "transfer_incomplete"},
	{ledgerdomain.ErrTransferUnbalanced, http.StatusConflict, "transfer_unbalanced"},
	{ledgerdomain.ErrDepositFundProtected, http.StatusConflict, "deposit_fund_protected"},
	{ledgerdomain.ErrNothingToDistribute, http.StatusConflict, "nothing_to_distribute"},
	{ledgerdomain.ErrZeroTotalTarget, http.StatusConflict, "zero_total_target"},
	{biddingdomain.ErrRoundAlreadyOpen, http.StatusConflict, "round_already_open"},
	{biddingdomain.ErrRoundNotOpen, http.StatusConflict, "round_not_open"},
	{biddingdomain.ErrBidAlreadySubmitted, http.StatusConflict, "bid_already_submitted"},
	{biddingdomain.ErrRoundIncomplete, http.StatusConflict, "round_incomplete"},
	{biddingdomain.ErrZeroPledged, http.StatusConflict, "zero_pledged"},
	{biddingdomain.ErrHouseholdInactive, http.StatusConflict, "household_inactive"},
	{rentdomain.ErrHouseholdInactive, http.StatusConflict, "household_inactive"},
	{rentdomain.ErrStaleProfiles, http.StatusConflict, "stale_profiles"},

	{householddomain.ErrInvalidRole, http.StatusUnprocessableEntity, "invalid_role"},
	{householddomain.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_request"},
	{ledgerdomain.ErrSameFund, http.StatusUnprocessableEntity, "same_fund"},
	{ledgerdomain.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{ledgerdomain.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_request"},
	{biddingdomain.ErrInvalidPeriod, http.StatusUnprocessableEntity, "invalid_period"},
	{biddingdomain.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{scheduledomain.ErrInvalidPeriod, http.StatusUnprocessableEntity, "invalid_period"},
	{expensesdomain.ErrInvalidType, http.StatusUnprocessableEntity, "invalid_type"},
	{expensesdomain.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{expensesdomain.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_request"},
	{analyticsdomain.ErrInvalidGroupBy, http.StatusUnprocessableEntity, "invalid_group_by"},
	{analyticsdomain.ErrInvalidRange, http.StatusUnprocessableEntity, "invalid_range"},
}

func classify(err error) (int, string, bool) {
	for _, mapping := range domainErrors {
		if errors.Is(err, mapping.err) {
			return mapping.status, mapping.code, true
		}
	}
	return http.StatusInternalServerError, "internal_error", false
}

// writeServiceError maps a domain error onto the envelope. Unknown errors are logged as internal and hidden.
func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	status, code, known := classify(err)
	if !known {
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, status, code, "internal error")
		return
	}
	h.log.BusinessError(op+": "+code, err, args...)
	writeError(w, status, code, err.Error())
}
