package expenses

import "errors"

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidType     = errors.New("expense type must be rent or ancillary")
	ErrInvalidAmount   = errors.New("yearly amount must not be negative")
	ErrInvalidInput    = errors.New("invalid input")
)
