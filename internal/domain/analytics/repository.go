package analytics

import (
	"context"
	"time"
)

type Repository interface {
	FundOpenings(ctx context.Context, before time.Time, fundIDs []string) ([]FundOpening, error)
	FundFlows(ctx context.Context, filter BalanceFilter) ([]FundFlow, error)
	RentChanges(ctx context.Context) ([]RentChange, error)
	DepositSummary(ctx context.Context, fundName string, from, to time.Time) (DepositSummary, error)
}
