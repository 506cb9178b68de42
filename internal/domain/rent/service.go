package rent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"housing-coop-go/internal/domain/household"
)

type Options struct {
	DepositFundName string
	// ProfileMaxAge is how long a confirmed household profile stays valid for rent estimates. Zero disables the check.
	ProfileMaxAge time.Duration
}

type Service struct {
	repo            Repository
	households      HouseholdSource
	depositFundName string
	profileMaxAge   time.Duration
	now             func() time.Time
}

func NewService(repo Repository, households HouseholdSource, opts Options) *Service {
	return &Service{
		repo:            repo,
		households:      households,
		depositFundName: opts.DepositFundName,
		profileMaxAge:   opts.ProfileMaxAge,
		now:             time.Now,
	}
}

func (s *Service) CalculateRentShares(ctx context.Context, householdID string) (*Shares, error) {
	in, err := s.Input(ctx)
	if err != nil {
		return nil, err
	}

	shares, err := Calculate(in, householdID)
	if errors.Is(err, ErrHouseholdNotFound) {
		return nil, s.missingHousehold(ctx, householdID)
	}
	if err != nil {
		return nil, err
	}
	return &shares, nil
}

func (s *Service) CalculateAll(ctx context.Context) ([]Shares, error) {
	in, err := s.Input(ctx)
	if err != nil {
		return nil, err
	}
	return CalculateAll(in), nil
}

// Input gathers the calculation input and refuses when an active household has not confirmed its profile
// recently enough.
func (s *Service) Input(ctx context.Context) (Input, error) {
	profiles, err := s.households.ListProfiles(ctx, true)
	if err != nil {
		return Input{}, err
	}
	if err := s.checkFreshness(profiles); err != nil {
		return Input{}, err
	}

	rooms, err := s.households.ListRooms(ctx)
	if err != nil {
		return Input{}, err
	}
	expenses, fundTargets, err := s.repo.FundingTotals(ctx, s.depositFundName)
	if err != nil {
		return Input{}, err
	}

	in := Input{
		Households:       make([]Household, 0, len(profiles)),
		Rooms:            make([]Room, 0, len(rooms)),
		ExpensesTotal:    expenses,
		FundTargetsTotal: fundTargets,
	}
	for _, profile := range profiles {
		in.Households = append(in.Households, Household{
			ID:              profile.ID,
			Name:            profile.Name,
			HeadCount:       profile.HeadCount,
			AvailableIncome: profile.AvailableIncome,
		})
	}
	for _, room := range rooms {
		in.Rooms = append(in.Rooms, Room{
			ID:        room.ID,
			Name:      room.Name,
			Area:      room.Area,
			TenantIDs: room.TenantIDs,
		})
	}
	return in, nil
}

func (s *Service) checkFreshness(profiles []household.Profile) error {
	now := s.now()
	var stale []string
	for _, profile := range profiles {
		switch {
		case !profile.Income.Valid:
			stale = append(stale, profile.Name)
		case s.profileMaxAge > 0 && (profile.LastUpdated == nil || now.Sub(*profile.LastUpdated) > s.profileMaxAge):
			stale = append(stale, profile.Name)
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", ErrStaleProfiles, strings.Join(stale, ", "))
	}
	return nil
}

// missingHousehold tells an inactive household apart from an unknown one.
func (s *Service) missingHousehold(ctx context.Context, householdID string) error {
	profiles, err := s.households.ListProfiles(ctx, false)
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		if profile.ID == householdID {
			return ErrHouseholdInactive
		}
	}
	return ErrHouseholdNotFound
}
