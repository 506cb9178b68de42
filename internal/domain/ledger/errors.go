package ledger

import "errors"

var (
	ErrFundNotFound         = errors.New("fund not found")
	ErrFundNameTaken        = errors.New("fund name already exists")
	ErrHouseholdNotFound    = errors.New("household not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAlreadyConfirmed     = errors.New("transaction already confirmed")
	ErrTransactionConfirmed = errors.New("confirmed transactions cannot be deleted")
	ErrTransferIncomplete   = errors.New("transfer does not have exactly two legs")
	ErrTransferUnbalanced   = errors.New("transfer legs do not cancel out")
	ErrSameFund             = errors.New("source and destination fund are the same")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDepositFundProtected = errors.New("deposit fund cannot be deleted")
	ErrNothingToDistribute  = errors.New("deposit fund has no positive balance")
	ErrZeroTotalTarget      = errors.New("funds have no yearly target to distribute against")
)
