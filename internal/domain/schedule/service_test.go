package schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeDeposit struct {
	householdID string
	fund        string
	amount      decimal.Decimal
	date        time.Time
	confirmed   bool
}

type fakeScheduleRepo struct {
	households map[string]*Household
	schedules  []Schedule
	deposits   []fakeDeposit
	markers    []time.Time
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{households: make(map[string]*Household)}
}

func (r *fakeScheduleRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeScheduleRepo) ListHouseholds(ctx context.Context) ([]Household, error) {
	result := make([]Household, 0, len(r.households))
	for _, household := range r.households {
		result = append(result, *household)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeScheduleRepo) GetHousehold(ctx context.Context, id string) (*Household, error) {
	household, ok := r.households[id]
	if !ok {
		return nil, ErrHouseholdNotFound
	}
	return household, nil
}

func (r *fakeScheduleRepo) UpdateLastFullPayment(ctx context.Context, householdID string, marker time.Time) error {
	r.households[householdID].LastFullPayment = &marker
	r.markers = append(r.markers, marker)
	return nil
}

func (r *fakeScheduleRepo) FindCovering(ctx context.Context, householdID, kind string, date time.Time) (*Schedule, error) {
	var found *Schedule
	for i := range r.schedules {
		record := r.schedules[i]
		if record.HouseholdID != householdID || record.Kind != kind || !record.Covers(date) {
			continue
		}
		if found == nil || record.StartDate.After(found.StartDate) {
			found = &record
		}
	}
	if found == nil {
		return nil, ErrScheduleNotFound
	}
	return found, nil
}

func (r *fakeScheduleRepo) ListSchedules(ctx context.Context, householdID string) ([]Schedule, error) {
	result := make([]Schedule, 0)
	for _, record := range r.schedules {
		if record.HouseholdID == householdID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) CloseRunning(ctx context.Context, householdID string, date time.Time) error {
	for i := range r.schedules {
		if r.schedules[i].HouseholdID == householdID && !r.schedules[i].EndDate.Before(date) {
			r.schedules[i].EndDate = date
		}
	}
	return nil
}

func (r *fakeScheduleRepo) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	r.schedules = append(r.schedules, *schedule)
	return nil
}

func (r *fakeScheduleRepo) SumConfirmedDeposits(ctx context.Context, householdID, depositFundName string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, deposit := range r.deposits {
		if deposit.householdID != householdID || deposit.fund != depositFundName || !deposit.confirmed {
			continue
		}
		if deposit.date.Before(from) || !deposit.date.Before(to) {
			continue
		}
		total = total.Add(deposit.amount)
	}
	return total, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo Repository, today time.Time) *Service {
	svc := NewService(repo, Options{DepositFundName: "Einzahlungsfonds", Epoch: date(2024, time.January, 1)})
	svc.now = func() time.Time { return today }
	return svc
}

func (r *fakeScheduleRepo) cash(householdID string, amount int64, start, end time.Time) {
	r.schedules = append(r.schedules, Schedule{
		ID:          householdID + start.Format("2006-01"),
		HouseholdID: householdID,
		Kind:        KindCash,
		Amount:      decimal.NewFromInt(amount),
		StartDate:   start,
		EndDate:     end,
	})
}

func (r *fakeScheduleRepo) deposit(householdID string, amount int64, on time.Time, confirmed bool) {
	r.deposits = append(r.deposits, fakeDeposit{
		householdID: householdID,
		fund:        "Einzahlungsfonds",
		amount:      decimal.NewFromInt(amount),
		date:        on,
		confirmed:   confirmed,
	})
}

func TestMissingPaymentForUnpaidMonth(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord"}
	repo.cash("h1", 50, date(2024, time.March, 1), date(2024, time.March, 31))

	svc := newTestService(repo, date(2024, time.April, 15))
	result, err := svc.CheckMissingPayments(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	arrears, ok := result["h1"]
	if !ok || len(arrears.Months) != 1 {
		t.Fatalf("expected one missing month, got %+v", result)
	}
	missing := arrears.Months[0]
	if !missing.Month.Equal(date(2024, time.March, 1)) || !missing.Deficit.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected (2024-03-01, 50), got (%s, %s)", missing.Month.Format("2006-01-02"), missing.Deficit)
	}
	if arrears.HouseholdName != "Nord" {
		t.Fatalf("expected household name, got %q", arrears.HouseholdName)
	}
	if repo.households["h1"].LastFullPayment != nil {
		t.Fatalf("expected marker unchanged, got %v", repo.households["h1"].LastFullPayment)
	}
}

func TestPaidMonthsAdvanceMarkerByCalendarMonth(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord"}
	repo.cash("h1", 100, date(2024, time.January, 1), date(2024, time.December, 31))
	repo.deposit("h1", 100, date(2024, time.January, 5), true)
	repo.deposit("h1", 60, date(2024, time.February, 3), true)
	repo.deposit("h1", 40, date(2024, time.February, 29), true)
	repo.deposit("h1", 100, date(2024, time.March, 31), false)

	svc := newTestService(repo, date(2024, time.March, 20))
	result, err := svc.CheckMissingPayments(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	marker := repo.households["h1"].LastFullPayment
	if marker == nil || !marker.Equal(date(2024, time.March, 1)) {
		t.Fatalf("expected marker 2024-03-01, got %v", marker)
	}
	months := result["h1"].Months
	if len(months) != 1 || !months[0].Month.Equal(date(2024, time.March, 1)) {
		t.Fatalf("expected only March missing (pending deposit ignored), got %+v", months)
	}
}

func TestMarkerStopsAtFirstGap(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord"}
	repo.cash("h1", 100, date(2024, time.January, 1), date(2024, time.December, 31))
	repo.deposit("h1", 100, date(2024, time.January, 10), true)
	repo.deposit("h1", 100, date(2024, time.March, 10), true)

	svc := newTestService(repo, date(2024, time.April, 1))
	result, err := svc.CheckMissingPayments(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	months := result["h1"].Months
	if len(months) != 1 || !months[0].Month.Equal(date(2024, time.February, 1)) {
		t.Fatalf("expected February missing, got %+v", months)
	}
	marker := repo.households["h1"].LastFullPayment
	if marker == nil || !marker.Equal(date(2024, time.February, 1)) {
		t.Fatalf("expected marker to stop at 2024-02-01, got %v", marker)
	}
}

func TestMonthsWithoutScheduleAreSkipped(t *testing.T) {
	repo := newFakeScheduleRepo()
	marker := date(2023, time.November, 1)
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord", LastFullPayment: &marker}

	svc := newTestService(repo, date(2024, time.June, 1))
	result, err := svc.CheckMissingPayments(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no arrears, got %+v", result)
	}
	if len(repo.markers) != 0 {
		t.Fatalf("expected marker untouched, got %v", repo.markers)
	}
}

func TestCurrentObligation(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord"}
	svc := newTestService(repo, date(2024, time.July, 1))
	ctx := context.Background()

	if err := Replace(ctx, repo, "h1", decimal.NewFromInt(300), decimal.NewFromInt(-100), date(2024, time.January, 1), date(2024, time.December, 31)); err != nil {
		t.Fatalf("replace: %v", err)
	}

	obligation, err := svc.CurrentObligation(ctx, "h1", date(2024, time.July, 15))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !obligation.Cash.Equal(decimal.NewFromInt(300)) || !obligation.Giro.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("expected cash 300 and giro -100, got %s and %s", obligation.Cash, obligation.Giro)
	}

	empty, err := svc.CurrentObligation(ctx, "h1", date(2025, time.February, 1))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !empty.Total().IsZero() {
		t.Fatalf("expected zero obligation outside schedule, got %s", empty.Total())
	}

	if _, err := svc.CurrentObligation(ctx, "missing", time.Time{}); !errors.Is(err, ErrHouseholdNotFound) {
		t.Fatalf("expected ErrHouseholdNotFound, got %v", err)
	}
}

func TestReplaceClosesRunningRecords(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.households["h1"] = &Household{ID: "h1", Name: "Nord"}
	ctx := context.Background()

	if err := Replace(ctx, repo, "h1", decimal.NewFromInt(100), decimal.NewFromInt(50), date(2024, time.January, 1), date(2024, time.December, 31)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := Replace(ctx, repo, "h1", decimal.NewFromInt(120), decimal.NewFromInt(40), date(2024, time.July, 1), date(2025, time.June, 30)); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if len(repo.schedules) != 4 {
		t.Fatalf("expected four records, got %d", len(repo.schedules))
	}
	for _, record := range repo.schedules[:2] {
		if !record.EndDate.Equal(date(2024, time.July, 1)) {
			t.Fatalf("expected old record closed at 2024-07-01, got %s", record.EndDate.Format("2006-01-02"))
		}
	}

	covering, err := repo.FindCovering(ctx, "h1", KindCash, date(2024, time.July, 1))
	if err != nil {
		t.Fatalf("find covering: %v", err)
	}
	if !covering.Amount.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected new record to win on the boundary day, got %s", covering.Amount)
	}

	if err := Replace(ctx, repo, "h1", decimal.Zero, decimal.Zero, date(2024, time.July, 1), date(2024, time.June, 1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
