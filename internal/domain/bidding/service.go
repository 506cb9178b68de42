package bidding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/schedule"
)

var monthsPerYear = decimal.NewFromInt(12)

type Service struct {
	repo            Repository
	depositFundName string
}

func NewService(repo Repository, depositFundName string) *Service {
	return &Service{repo: repo, depositFundName: depositFundName}
}

// StartRound opens a round for the period with the monthly cash and giro need fixed at today's fund targets and expenses.
func (s *Service) StartRound(ctx context.Context, periodStart, periodEnd time.Time) (*Round, error) {
	periodStart, periodEnd = dateOnly(periodStart), dateOnly(periodEnd)
	if periodEnd.Before(periodStart) {
		return nil, ErrInvalidPeriod
	}

	var round Round
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetOpenRound(ctx)
		if err == nil {
			return ErrRoundAlreadyOpen
		}
		if !errors.Is(err, ErrNoOpenRound) {
			return err
		}

		fundTargets, expenses, err := tx.FundingTotals(ctx, s.depositFundName)
		if err != nil {
			return err
		}

		round = Round{
			ID:                 uuid.NewString(),
			Status:             StatusOpen,
			TotalCashNeeded:    fundTargets.Div(monthsPerYear).Round(2),
			TotalGiroNeeded:    expenses.Div(monthsPerYear).Round(2),
			TotalAmountPledged: decimal.Zero,
			PeriodStart:        periodStart,
			PeriodEnd:          periodEnd,
		}
		return tx.CreateRound(ctx, &round)
	})
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// SubmitBid records the household's single bid for the open round and refreshes the pledged total.
func (s *Service) SubmitBid(ctx context.Context, householdID string, amount decimal.Decimal) (*Bid, *Round, error) {
	if amount.IsNegative() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		bid   Bid
		round *Round
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		open, err := tx.GetOpenRound(ctx)
		if err != nil {
			return err
		}
		household, err := tx.GetHousehold(ctx, householdID)
		if err != nil {
			return err
		}
		if !household.Active {
			return ErrHouseholdInactive
		}

		bid = Bid{
			ID:          uuid.NewString(),
			HouseholdID: householdID,
			RoundID:     open.ID,
			Amount:      amount,
		}
		if err := tx.CreateBid(ctx, &bid); err != nil {
			return err
		}

		pledged, err := tx.RecalculatePledged(ctx, open.ID)
		if err != nil {
			return err
		}
		open.TotalAmountPledged = pledged
		round = open
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &bid, round, nil
}

// Status reports the open round and who still has to bid. ErrNoOpenRound means there is nothing to evaluate.
func (s *Service) Status(ctx context.Context) (*RoundStatus, error) {
	round, err := s.repo.GetOpenRound(ctx)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, s.repo, round)
}

func (s *Service) status(ctx context.Context, repo Repository, round *Round) (*RoundStatus, error) {
	bids, err := repo.ListBids(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	households, err := repo.ListActiveHouseholds(ctx)
	if err != nil {
		return nil, err
	}

	bidders := make(map[string]struct{}, len(bids))
	for _, bid := range bids {
		bidders[bid.HouseholdID] = struct{}{}
	}
	missing := make([]Household, 0)
	for _, household := range households {
		if _, ok := bidders[household.ID]; !ok {
			missing = append(missing, household)
		}
	}

	return &RoundStatus{
		Round:            *round,
		Bids:             bids,
		ActiveHouseholds: len(households),
		Complete:         len(bids) >= len(households),
		MissingBids:      missing,
	}, nil
}

// DefaultBid looks up the household's bid in the most recent declined round for the open round's period.
func (s *Service) DefaultBid(ctx context.Context, householdID string) (*DefaultBid, error) {
	open, err := s.repo.GetOpenRound(ctx)
	if err != nil {
		return nil, err
	}

	declined, err := s.repo.LatestDeclinedRound(ctx, open.PeriodStart, open.PeriodEnd)
	if errors.Is(err, ErrRoundNotFound) {
		return nil, ErrNoPreviousBid
	}
	if err != nil {
		return nil, err
	}

	bid, err := s.repo.GetBid(ctx, declined.ID, householdID)
	if errors.Is(err, ErrBidNotFound) {
		return nil, ErrNoPreviousBid
	}
	if err != nil {
		return nil, err
	}

	return &DefaultBid{
		RoundID:   declined.ID,
		Amount:    bid.Amount,
		Shortfall: declined.AmountShortfall(),
	}, nil
}

// AcceptRound fixes every bidder's cash and giro obligation for the round's period and closes the round.
func (s *Service) AcceptRound(ctx context.Context) (*AcceptResult, error) {
	var result *AcceptResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		round, err := tx.GetOpenRound(ctx)
		if err != nil {
			return err
		}
		status, err := s.status(ctx, tx, round)
		if err != nil {
			return err
		}
		if !status.Complete {
			return ErrRoundIncomplete
		}

		effectiveCash, allocations, err := Allocate(*round, status.Bids)
		if err != nil {
			return err
		}

		schedules := tx.Schedules()
		for _, allocation := range allocations {
			if err := schedule.Replace(ctx, schedules, allocation.HouseholdID, allocation.Cash, allocation.Giro, round.PeriodStart, round.PeriodEnd); err != nil {
				return err
			}
		}

		if err := tx.SetStatus(ctx, round.ID, StatusAccepted); err != nil {
			return err
		}
		round.Status = StatusAccepted

		result = &AcceptResult{
			Round:               *round,
			EffectiveCashNeeded: effectiveCash,
			Allocations:         allocations,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeclineRound closes the open round and opens a fresh one with the same targets and period.
func (s *Service) DeclineRound(ctx context.Context) (*Round, error) {
	var next Round
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		round, err := tx.GetOpenRound(ctx)
		if err != nil {
			return err
		}
		if err := tx.SetStatus(ctx, round.ID, StatusDeclined); err != nil {
			return err
		}

		next = Round{
			ID:                 uuid.NewString(),
			Status:             StatusOpen,
			TotalCashNeeded:    round.TotalCashNeeded,
			TotalGiroNeeded:    round.TotalGiroNeeded,
			TotalAmountPledged: decimal.Zero,
			PeriodStart:        round.PeriodStart,
			PeriodEnd:          round.PeriodEnd,
		}
		return tx.CreateRound(ctx, &next)
	})
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// Allocate splits the round's need across the bids. A shortfall is taken out of the cash pool; a surplus is
// not handed back. Cash is rounded up to whole notes of five and the giro leg absorbs the difference, so it may
// turn negative.
func Allocate(round Round, bids []Bid) (decimal.Decimal, []Allocation, error) {
	pledged := decimal.Zero
	for _, bid := range bids {
		pledged = pledged.Add(bid.Amount)
	}
	if !pledged.IsPositive() {
		return decimal.Zero, nil, ErrZeroPledged
	}

	effectiveCash := round.TotalCashNeeded
	if shortfall := round.TotalAmountNeeded().Sub(pledged); shortfall.IsPositive() {
		effectiveCash = effectiveCash.Sub(shortfall)
	}

	allocations := make([]Allocation, 0, len(bids))
	for _, bid := range bids {
		cash := effectiveCash.Mul(bid.Amount).Div(pledged.Mul(cashUnit)).Ceil().Mul(cashUnit)
		giro := round.TotalGiroNeeded.Mul(bid.Amount).Div(pledged).Sub(cash).Round(2)

		allocations = append(allocations, Allocation{
			HouseholdID: bid.HouseholdID,
			Bid:         bid.Amount,
			Proportion:  bid.Amount.Div(pledged),
			Cash:        cash,
			Giro:        giro,
		})
	}
	return effectiveCash, allocations, nil
}

func dateOnly(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
