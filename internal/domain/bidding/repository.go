package bidding

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/schedule"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Schedules shares the repository's connection, so writes join any transaction in progress.
	Schedules() schedule.Repository

	GetOpenRound(ctx context.Context) (*Round, error)
	GetRound(ctx context.Context, id string) (*Round, error)
	CreateRound(ctx context.Context, round *Round) error
	// SetStatus moves an open round to status. Returns ErrRoundNotOpen when the round is no longer open.
	SetStatus(ctx context.Context, roundID, status string) error
	LatestDeclinedRound(ctx context.Context, periodStart, periodEnd time.Time) (*Round, error)

	CreateBid(ctx context.Context, bid *Bid) error
	GetBid(ctx context.Context, roundID, householdID string) (*Bid, error)
	ListBids(ctx context.Context, roundID string) ([]Bid, error)
	// RecalculatePledged stores and returns the sum of the round's bids.
	RecalculatePledged(ctx context.Context, roundID string) (decimal.Decimal, error)

	GetHousehold(ctx context.Context, id string) (*Household, error)
	ListActiveHouseholds(ctx context.Context) ([]Household, error)
	// FundingTotals returns the yearly fund targets (deposit fund excluded) and the yearly expense amounts.
	FundingTotals(ctx context.Context, depositFundName string) (fundTargets, expenses decimal.Decimal, err error)
}
