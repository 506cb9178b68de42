package schedule

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListHouseholds(ctx context.Context) ([]Household, error)
	GetHousehold(ctx context.Context, id string) (*Household, error)
	UpdateLastFullPayment(ctx context.Context, householdID string, marker time.Time) error

	// FindCovering returns the record of the kind covering date; the latest start wins when several do.
	FindCovering(ctx context.Context, householdID, kind string, date time.Time) (*Schedule, error)
	ListSchedules(ctx context.Context, householdID string) ([]Schedule, error)
	// CloseRunning end-dates every record of the household that still runs on or after date.
	CloseRunning(ctx context.Context, householdID string, date time.Time) error
	CreateSchedule(ctx context.Context, schedule *Schedule) error

	SumConfirmedDeposits(ctx context.Context, householdID, depositFundName string, from, to time.Time) (decimal.Decimal, error)
}
