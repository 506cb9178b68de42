package bidding

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/schedule"
)

type fakeScheduleRepo struct {
	records []schedule.Schedule
}

func (r *fakeScheduleRepo) Transaction(ctx context.Context, fn func(schedule.Repository) error) error {
	return fn(r)
}

func (r *fakeScheduleRepo) ListHouseholds(ctx context.Context) ([]schedule.Household, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) GetHousehold(ctx context.Context, id string) (*schedule.Household, error) {
	return &schedule.Household{ID: id}, nil
}

func (r *fakeScheduleRepo) UpdateLastFullPayment(ctx context.Context, householdID string, marker time.Time) error {
	return nil
}

func (r *fakeScheduleRepo) FindCovering(ctx context.Context, householdID, kind string, date time.Time) (*schedule.Schedule, error) {
	return nil, schedule.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) ListSchedules(ctx context.Context, householdID string) ([]schedule.Schedule, error) {
	result := make([]schedule.Schedule, 0)
	for _, record := range r.records {
		if record.HouseholdID == householdID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) CloseRunning(ctx context.Context, householdID string, date time.Time) error {
	for i := range r.records {
		if r.records[i].HouseholdID == householdID && !r.records[i].EndDate.Before(date) {
			r.records[i].EndDate = date
		}
	}
	return nil
}

func (r *fakeScheduleRepo) CreateSchedule(ctx context.Context, record *schedule.Schedule) error {
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeScheduleRepo) SumConfirmedDeposits(ctx context.Context, householdID, depositFundName string, from, to time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeBiddingRepo struct {
	rounds      map[string]*Round
	bids        []Bid
	households  map[string]Household
	fundTargets decimal.Decimal
	expenses    decimal.Decimal
	schedules   *fakeScheduleRepo
}

func newFakeBiddingRepo() *fakeBiddingRepo {
	return &fakeBiddingRepo{
		rounds:     make(map[string]*Round),
		households: make(map[string]Household),
		schedules:  &fakeScheduleRepo{},
	}
}

func (r *fakeBiddingRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeBiddingRepo) Schedules() schedule.Repository {
	return r.schedules
}

func (r *fakeBiddingRepo) GetOpenRound(ctx context.Context) (*Round, error) {
	for _, round := range r.rounds {
		if round.Status == StatusOpen {
			stored := *round
			return &stored, nil
		}
	}
	return nil, ErrNoOpenRound
}

func (r *fakeBiddingRepo) GetRound(ctx context.Context, id string) (*Round, error) {
	round, ok := r.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	stored := *round
	return &stored, nil
}

func (r *fakeBiddingRepo) CreateRound(ctx context.Context, round *Round) error {
	if round.Status == StatusOpen {
		if _, err := r.GetOpenRound(ctx); err == nil {
			return ErrRoundAlreadyOpen
		}
	}
	round.UpdatedAt = time.Now()
	stored := *round
	r.rounds[round.ID] = &stored
	return nil
}

func (r *fakeBiddingRepo) SetStatus(ctx context.Context, roundID, status string) error {
	round, ok := r.rounds[roundID]
	if !ok || round.Status != StatusOpen {
		return ErrRoundNotOpen
	}
	round.Status = status
	round.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBiddingRepo) LatestDeclinedRound(ctx context.Context, periodStart, periodEnd time.Time) (*Round, error) {
	var latest *Round
	for _, round := range r.rounds {
		if round.Status != StatusDeclined || !round.PeriodStart.Equal(periodStart) || !round.PeriodEnd.Equal(periodEnd) {
			continue
		}
		if latest == nil || round.UpdatedAt.After(latest.UpdatedAt) {
			latest = round
		}
	}
	if latest == nil {
		return nil, ErrRoundNotFound
	}
	stored := *latest
	return &stored, nil
}

func (r *fakeBiddingRepo) CreateBid(ctx context.Context, bid *Bid) error {
	for _, existing := range r.bids {
		if existing.RoundID == bid.RoundID && existing.HouseholdID == bid.HouseholdID {
			return ErrBidAlreadySubmitted
		}
	}
	r.bids = append(r.bids, *bid)
	return nil
}

func (r *fakeBiddingRepo) GetBid(ctx context.Context, roundID, householdID string) (*Bid, error) {
	for _, bid := range r.bids {
		if bid.RoundID == roundID && bid.HouseholdID == householdID {
			stored := bid
			return &stored, nil
		}
	}
	return nil, ErrBidNotFound
}

func (r *fakeBiddingRepo) ListBids(ctx context.Context, roundID string) ([]Bid, error) {
	result := make([]Bid, 0)
	for _, bid := range r.bids {
		if bid.RoundID == roundID {
			result = append(result, bid)
		}
	}
	return result, nil
}

func (r *fakeBiddingRepo) RecalculatePledged(ctx context.Context, roundID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, bid := range r.bids {
		if bid.RoundID == roundID {
			total = total.Add(bid.Amount)
		}
	}
	r.rounds[roundID].TotalAmountPledged = total
	return total, nil
}

func (r *fakeBiddingRepo) GetHousehold(ctx context.Context, id string) (*Household, error) {
	household, ok := r.households[id]
	if !ok {
		return nil, ErrHouseholdNotFound
	}
	return &household, nil
}

func (r *fakeBiddingRepo) ListActiveHouseholds(ctx context.Context) ([]Household, error) {
	result := make([]Household, 0)
	for _, household := range r.households {
		if household.Active {
			result = append(result, household)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeBiddingRepo) FundingTotals(ctx context.Context, depositFundName string) (decimal.Decimal, decimal.Decimal, error) {
	return r.fundTargets, r.expenses, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func scenarioRepo() *fakeBiddingRepo {
	repo := newFakeBiddingRepo()
	repo.fundTargets = decimal.NewFromInt(7200)
	repo.expenses = decimal.NewFromInt(4800)
	repo.households["h1"] = Household{ID: "h1", Name: "Nord", Active: true}
	repo.households["h2"] = Household{ID: "h2", Name: "Sued", Active: true}
	repo.households["h3"] = Household{ID: "h3", Name: "West", Active: false}
	return repo
}

func TestStartRoundUsesMonthlyTotals(t *testing.T) {
	repo := scenarioRepo()
	svc := NewService(repo, "Einzahlungsfonds")

	round, err := svc.StartRound(context.Background(), date(2025, time.January, 1), date(2025, time.December, 31))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !round.TotalCashNeeded.Equal(decimal.NewFromInt(600)) || !round.TotalGiroNeeded.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected cash 600 and giro 400, got %s and %s", round.TotalCashNeeded, round.TotalGiroNeeded)
	}
	if round.Status != StatusOpen || !round.TotalAmountPledged.IsZero() {
		t.Fatalf("expected empty open round, got %+v", round)
	}

	if _, err := svc.StartRound(context.Background(), date(2025, time.January, 1), date(2025, time.December, 31)); !errors.Is(err, ErrRoundAlreadyOpen) {
		t.Fatalf("expected ErrRoundAlreadyOpen, got %v", err)
	}
}

func TestStartRoundRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(scenarioRepo(), "Einzahlungsfonds")
	if _, err := svc.StartRound(context.Background(), date(2025, time.June, 1), date(2025, time.January, 1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestSubmitBidUpdatesPledged(t *testing.T) {
	repo := scenarioRepo()
	svc := NewService(repo, "Einzahlungsfonds")
	ctx := context.Background()
	if _, err := svc.StartRound(ctx, date(2025, time.January, 1), date(2025, time.December, 31)); err != nil {
		t.Fatalf("start round: %v", err)
	}

	if _, _, err := svc.SubmitBid(ctx, "h1", dec("450.50")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, round, err := svc.SubmitBid(ctx, "h2", dec("520"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !round.TotalAmountPledged.Equal(dec("970.50")) {
		t.Fatalf("expected pledged 970.50, got %s", round.TotalAmountPledged)
	}
	if !round.AmountShortfall().Equal(dec("29.50")) {
		t.Fatalf("expected shortfall 29.50, got %s", round.AmountShortfall())
	}

	if _, _, err := svc.SubmitBid(ctx, "h1", dec("10")); !errors.Is(err, ErrBidAlreadySubmitted) {
		t.Fatalf("expected ErrBidAlreadySubmitted, got %v", err)
	}
	if _, _, err := svc.SubmitBid(ctx, "h3", dec("10")); !errors.Is(err, ErrHouseholdInactive) {
		t.Fatalf("expected ErrHouseholdInactive, got %v", err)
	}
	if _, _, err := svc.SubmitBid(ctx, "missing", dec("10")); !errors.Is(err, ErrHouseholdNotFound) {
		t.Fatalf("expected ErrHouseholdNotFound, got %v", err)
	}
	if _, _, err := svc.SubmitBid(ctx, "h2", dec("-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSubmitBidWithoutOpenRound(t *testing.T) {
	svc := NewService(scenarioRepo(), "Einzahlungsfonds")
	if _, _, err := svc.SubmitBid(context.Background(), "h1", dec("100")); !errors.Is(err, ErrNoOpenRound) {
		t.Fatalf("expected ErrNoOpenRound, got %v", err)
	}
}

func TestStatusListsMissingBidders(t *testing.T) {
	repo := scenarioRepo()
	svc := NewService(repo, "Einzahlungsfonds")
	ctx := context.Background()
	if _, err := svc.StartRound(ctx, date(2025, time.January, 1), date(2025, time.December, 31)); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, _, err := svc.SubmitBid(ctx, "h2", dec("500")); err != nil {
		t.Fatalf("submit bid: %v", err)
	}

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.Complete || status.ActiveHouseholds != 2 {
		t.Fatalf("expected incomplete round with two active households, got %+v", status)
	}
	if len(status.MissingBids) != 1 || status.MissingBids[0].ID != "h1" {
		t.Fatalf("expected h1 missing, got %+v", status.MissingBids)
	}

	if _, err := svc.AcceptRound(ctx); !errors.Is(err, ErrRoundIncomplete) {
		t.Fatalf("expected ErrRoundIncomplete, got %v", err)
	}
}

func TestAcceptRoundWritesSchedules(t *testing.T) {
	repo := scenarioRepo()
	svc := NewService(repo, "Einzahlungsfonds")
	ctx := context.Background()
	if _, err := svc.StartRound(ctx, date(2025, time.January, 1), date(2025, time.December, 31)); err != nil {
		t.Fatalf("start round: %v", err)
	}
	for _, id := range []string{"h1", "h2"} {
		if _, _, err := svc.SubmitBid(ctx, id, dec("500")); err != nil {
			t.Fatalf("submit bid: %v", err)
		}
	}

	result, err := svc.AcceptRound(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Round.Status != StatusAccepted {
		t.Fatalf("expected accepted round, got %q", result.Round.Status)
	}
	for _, allocation := range result.Allocations {
		if !allocation.Cash.Equal(decimal.NewFromInt(300)) || !allocation.Giro.Equal(decimal.NewFromInt(-100)) {
			t.Fatalf("expected cash 300 and giro -100, got %s and %s", allocation.Cash, allocation.Giro)
		}
	}

	records, err := repo.schedules.ListSchedules(ctx, "h1")
	if err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected cash and giro records, got %d", len(records))
	}
	for _, record := range records {
		if !record.StartDate.Equal(date(2025, time.January, 1)) || !record.EndDate.Equal(date(2025, time.December, 31)) {
			t.Fatalf("expected records over the round period, got %+v", record)
		}
	}

	if _, err := svc.Status(ctx); !errors.Is(err, ErrNoOpenRound) {
		t.Fatalf("expected ErrNoOpenRound after accept, got %v", err)
	}
}

func TestAllocateTakesShortfallFromCash(t *testing.T) {
	round := Round{TotalCashNeeded: dec("600"), TotalGiroNeeded: dec("400")}
	bids := []Bid{
		{HouseholdID: "h1", Amount: dec("400")},
		{HouseholdID: "h2", Amount: dec("400")},
	}

	effective, allocations, err := Allocate(round, bids)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !effective.Equal(dec("400")) {
		t.Fatalf("expected effective cash 400, got %s", effective)
	}
	for _, allocation := range allocations {
		if !allocation.Cash.Equal(dec("200")) || !allocation.Giro.IsZero() {
			t.Fatalf("expected cash 200 and giro 0, got %s and %s", allocation.Cash, allocation.Giro)
		}
	}
}

func TestAllocateCashInUnitsOfFive(t *testing.T) {
	round := Round{TotalCashNeeded: dec("100"), TotalGiroNeeded: dec("50")}
	bids := []Bid{
		{HouseholdID: "h1", Amount: dec("40")},
		{HouseholdID: "h2", Amount: dec("50")},
		{HouseholdID: "h3", Amount: dec("60")},
	}

	_, allocations, err := Allocate(round, bids)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantCash := []string{"30", "35", "40"}
	cashTotal := decimal.Zero
	for i, allocation := range allocations {
		if !allocation.Cash.Mod(cashUnit).IsZero() {
			t.Fatalf("expected cash in units of five, got %s", allocation.Cash)
		}
		if !allocation.Cash.Equal(dec(wantCash[i])) {
			t.Fatalf("expected cash %s for %s, got %s", wantCash[i], allocation.HouseholdID, allocation.Cash)
		}
		cashTotal = cashTotal.Add(allocation.Cash)
	}
	if cashTotal.LessThan(round.TotalCashNeeded) {
		t.Fatalf("expected rounded cash to cover the need, got %s", cashTotal)
	}
	if !allocations[0].Giro.Equal(dec("-16.67")) {
		t.Fatalf("expected giro -16.67, got %s", allocations[0].Giro)
	}
}

func TestAllocateRejectsZeroPledged(t *testing.T) {
	round := Round{TotalCashNeeded: dec("100"), TotalGiroNeeded: dec("50")}
	if _, _, err := Allocate(round, []Bid{{HouseholdID: "h1", Amount: decimal.Zero}}); !errors.Is(err, ErrZeroPledged) {
		t.Fatalf("expected ErrZeroPledged, got %v", err)
	}
	if _, _, err := Allocate(round, nil); !errors.Is(err, ErrZeroPledged) {
		t.Fatalf("expected ErrZeroPledged for no bids, got %v", err)
	}
}

func TestDeclineRoundOpensCopy(t *testing.T) {
	repo := scenarioRepo()
	svc := NewService(repo, "Einzahlungsfonds")
	ctx := context.Background()
	first, err := svc.StartRound(ctx, date(2025, time.January, 1), date(2025, time.December, 31))
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, _, err := svc.SubmitBid(ctx, "h1", dec("420")); err != nil {
		t.Fatalf("submit bid: %v", err)
	}

	next, err := svc.DeclineRound(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if next.ID == first.ID || next.Status != StatusOpen {
		t.Fatalf("expected a new open round, got %+v", next)
	}
	if !next.TotalCashNeeded.Equal(first.TotalCashNeeded) || !next.TotalGiroNeeded.Equal(first.TotalGiroNeeded) {
		t.Fatalf("expected copied totals, got %s and %s", next.TotalCashNeeded, next.TotalGiroNeeded)
	}
	if !next.TotalAmountPledged.IsZero() {
		t.Fatalf("expected no pledges on the new round, got %s", next.TotalAmountPledged)
	}
	if repo.rounds[first.ID].Status != StatusDeclined {
		t.Fatalf("expected first round declined, got %q", repo.rounds[first.ID].Status)
	}

	guidance, err := svc.DefaultBid(ctx, "h1")
	if err != nil {
		t.Fatalf("expected default bid, got %v", err)
	}
	if !guidance.Amount.Equal(dec("420")) || guidance.RoundID != first.ID {
		t.Fatalf("expected previous bid 420, got %+v", guidance)
	}
	if !guidance.Shortfall.Equal(dec("580")) {
		t.Fatalf("expected shortfall 580, got %s", guidance.Shortfall)
	}

	if _, err := svc.DefaultBid(ctx, "h2"); !errors.Is(err, ErrNoPreviousBid) {
		t.Fatalf("expected ErrNoPreviousBid, got %v", err)
	}
}

func TestDefaultBidWithoutDeclinedRound(t *testing.T) {
	svc := NewService(scenarioRepo(), "Einzahlungsfonds")
	ctx := context.Background()
	if _, err := svc.StartRound(ctx, date(2025, time.January, 1), date(2025, time.December, 31)); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := svc.DefaultBid(ctx, "h1"); !errors.Is(err, ErrNoPreviousBid) {
		t.Fatalf("expected ErrNoPreviousBid, got %v", err)
	}
}
