package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Options struct {
	DepositFundName string
	// Epoch is where the walk starts for households that have never paid a month in full.
	Epoch time.Time
}

type Service struct {
	repo            Repository
	depositFundName string
	epoch           time.Time
	now             func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{
		repo:            repo,
		depositFundName: opts.DepositFundName,
		epoch:           opts.Epoch,
		now:             time.Now,
	}
}

// CheckMissingPayments walks every household month by month from its last-full-payment marker up to today and
// reports months whose confirmed deposits fall short of the cash obligation. Households without arrears are absent.
// The marker moves forward across the paid months that directly follow it and is saved as it moves.
func (s *Service) CheckMissingPayments(ctx context.Context) (map[string]Arrears, error) {
	households, err := s.repo.ListHouseholds(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	result := make(map[string]Arrears)
	for _, household := range households {
		arrears, err := s.walkHousehold(ctx, household, today)
		if err != nil {
			return nil, err
		}
		if len(arrears.Months) > 0 {
			result[household.ID] = arrears
		}
	}
	return result, nil
}

func (s *Service) walkHousehold(ctx context.Context, household Household, today time.Time) (Arrears, error) {
	arrears := Arrears{HouseholdID: household.ID, HouseholdName: household.Name}

	marker := s.epoch
	if household.LastFullPayment != nil {
		marker = *household.LastFullPayment
	}

	paidUpToCursor := true
	for month := monthStart(marker); month.Before(today); month = month.AddDate(0, 1, 0) {
		next := month.AddDate(0, 1, 0)

		record, err := s.repo.FindCovering(ctx, household.ID, KindCash, month)
		if errors.Is(err, ErrScheduleNotFound) {
			continue
		}
		if err != nil {
			return Arrears{}, err
		}

		paid, err := s.repo.SumConfirmedDeposits(ctx, household.ID, s.depositFundName, month, next)
		if err != nil {
			return Arrears{}, err
		}

		if paid.LessThan(record.Amount) {
			arrears.Months = append(arrears.Months, MissingPayment{
				Month:    month,
				Required: record.Amount,
				Paid:     paid,
				Deficit:  record.Amount.Sub(paid),
			})
			paidUpToCursor = false
			continue
		}

		if paidUpToCursor {
			if err := s.repo.UpdateLastFullPayment(ctx, household.ID, next); err != nil {
				return Arrears{}, err
			}
		}
	}
	return arrears, nil
}

// CurrentObligation returns the cash and giro amounts in force for the household at the given date.
// A missing leg counts as zero.
func (s *Service) CurrentObligation(ctx context.Context, householdID string, at time.Time) (*Obligation, error) {
	if _, err := s.repo.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.now()
	}
	at = dateOnly(at)

	obligation := &Obligation{HouseholdID: householdID, At: at, Cash: decimal.Zero, Giro: decimal.Zero}

	cash, err := s.repo.FindCovering(ctx, householdID, KindCash, at)
	if err != nil && !errors.Is(err, ErrScheduleNotFound) {
		return nil, err
	}
	if cash != nil {
		obligation.Cash = cash.Amount
		obligation.CashRecord = cash
	}

	giro, err := s.repo.FindCovering(ctx, householdID, KindGiro, at)
	if err != nil && !errors.Is(err, ErrScheduleNotFound) {
		return nil, err
	}
	if giro != nil {
		obligation.Giro = giro.Amount
		obligation.GiroRecord = giro
	}
	return obligation, nil
}

func (s *Service) ListSchedules(ctx context.Context, householdID string) ([]Schedule, error) {
	if _, err := s.repo.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, householdID)
}

// Replace end-dates the household's running records at start and inserts the new cash and giro legs for
// [start, end]. Callers run it inside their own transaction.
func Replace(ctx context.Context, repo Repository, householdID string, cash, giro decimal.Decimal, start, end time.Time) error {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return ErrInvalidPeriod
	}

	if err := repo.CloseRunning(ctx, householdID, start); err != nil {
		return err
	}

	legs := []Schedule{
		{Kind: KindCash, Amount: cash},
		{Kind: KindGiro, Amount: giro},
	}
	for i := range legs {
		legs[i].ID = uuid.NewString()
		legs[i].HouseholdID = householdID
		legs[i].StartDate = start
		legs[i].EndDate = end
		if err := repo.CreateSchedule(ctx, &legs[i]); err != nil {
			return err
		}
	}
	return nil
}

func monthStart(date time.Time) time.Time {
	year, month, _ := date.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func dateOnly(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
