package rent

import (
	"context"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/household"
)

type Repository interface {
	// FundingTotals returns the yearly expense amounts and the yearly targets of every live fund except the deposit fund.
	FundingTotals(ctx context.Context, depositFundName string) (expenses, fundTargets decimal.Decimal, err error)
}

// HouseholdSource supplies profiles and rooms. Implemented by household.Service.
type HouseholdSource interface {
	ListProfiles(ctx context.Context, activeOnly bool) ([]household.Profile, error)
	ListRooms(ctx context.Context) ([]household.RoomWithTenants, error)
}
