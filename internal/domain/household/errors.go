package household

import "errors"

var (
	ErrHouseholdNotFound  = errors.New("household not found")
	ErrHouseholdNameTaken = errors.New("household name already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameTaken  = errors.New("category name already exists")
	ErrMemberNotFound     = errors.New("member not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomNameTaken      = errors.New("room name already exists")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidInput       = errors.New("invalid input")
)
