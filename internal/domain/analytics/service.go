package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

type Service struct {
	repo            Repository
	depositFundName string
}

func NewService(repo Repository, depositFundName string) *Service {
	return &Service{repo: repo, depositFundName: depositFundName}
}

// FundBalances returns one series per fund with a point for every period bucket in range,
// carrying the running confirmed balance forward through empty buckets.
func (s *Service) FundBalances(ctx context.Context, filter BalanceFilter) ([]FundSeries, error) {
	groupBy, err := normalizeGroupBy(filter.GroupBy)
	if err != nil {
		return nil, err
	}
	if filter.From.IsZero() || filter.To.IsZero() || filter.To.Before(filter.From) {
		return nil, ErrInvalidRange
	}
	filter.GroupBy = groupBy

	openings, err := s.repo.FundOpenings(ctx, filter.From, filter.FundIDs)
	if err != nil {
		return nil, err
	}
	flows, err := s.repo.FundFlows(ctx, filter)
	if err != nil {
		return nil, err
	}

	type fundState struct {
		name    string
		opening decimal.Decimal
		amounts map[string]decimal.Decimal
	}
	funds := make(map[string]*fundState)
	state := func(id, name string) *fundState {
		f, ok := funds[id]
		if !ok {
			f = &fundState{name: name, amounts: make(map[string]decimal.Decimal)}
			funds[id] = f
		}
		return f
	}
	for _, o := range openings {
		state(o.FundID, o.FundName).opening = o.Balance
	}
	for _, flow := range flows {
		f := state(flow.FundID, flow.FundName)
		key := periodKey(truncatePeriod(flow.Period, groupBy))
		f.amounts[key] = f.amounts[key].Add(flow.Amount)
	}

	periods := periodRange(filter.From, filter.To, groupBy)
	series := make([]FundSeries, 0, len(funds))
	for id, f := range funds {
		balance := f.opening
		points := make([]BalancePoint, 0, len(periods))
		for _, period := range periods {
			amount := f.amounts[periodKey(period)]
			balance = balance.Add(amount)
			points = append(points, BalancePoint{Period: period, Amount: amount, Balance: balance})
		}
		series = append(series, FundSeries{FundID: id, FundName: f.name, Points: points})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].FundName != series[j].FundName {
			return series[i].FundName < series[j].FundName
		}
		return series[i].FundID < series[j].FundID
	})
	return series, nil
}

// RentDevelopment rebuilds the monthly contribution of every expense and fund target
// from the change log, sampled on each day a change happened.
func (s *Service) RentDevelopment(ctx context.Context) (*RentDevelopment, error) {
	changes, err := s.repo.RentChanges(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Date.Before(changes[j].Date)
	})

	type entity struct {
		entityType string
		id         string
		name       string
		moved      bool
		deltas     map[string]decimal.Decimal
	}
	entities := make(map[string]*entity)
	var order []string
	var dates []time.Time
	seenDates := make(map[string]bool)

	for _, change := range changes {
		day := truncatePeriod(change.Date, GroupByDay)
		if key := periodKey(day); !seenDates[key] {
			seenDates[key] = true
			dates = append(dates, day)
		}

		key := change.EntityType + ":" + change.EntityID
		e, ok := entities[key]
		if !ok {
			e = &entity{entityType: change.EntityType, id: change.EntityID, deltas: make(map[string]decimal.Decimal)}
			entities[key] = e
			order = append(order, key)
		}
		if change.Name != "" {
			e.name = change.Name
		}
		if !change.Delta.IsZero() {
			e.moved = true
		}
		dayKey := periodKey(day)
		e.deltas[dayKey] = e.deltas[dayKey].Add(change.Delta)
	}

	result := &RentDevelopment{Series: []RentSeries{}, CurrentTotal: decimal.Zero}
	yearlyTotal := decimal.Zero
	for _, key := range order {
		e := entities[key]
		if !e.moved {
			continue
		}
		yearly := decimal.Zero
		points := make([]RentPoint, 0, len(dates))
		for _, day := range dates {
			yearly = yearly.Add(e.deltas[periodKey(day)])
			points = append(points, RentPoint{Date: day, Monthly: yearly.Div(monthsPerYear).Round(2)})
		}
		yearlyTotal = yearlyTotal.Add(yearly)

		name := e.name
		if name == "" {
			name = e.id
		}
		result.Series = append(result.Series, RentSeries{
			EntityType: e.entityType,
			EntityID:   e.id,
			Name:       name,
			Points:     points,
		})
	}
	result.CurrentTotal = yearlyTotal.Div(monthsPerYear).Round(2)
	return result, nil
}

// CompareDeposits sums confirmed payments into the deposit fund over two ranges.
func (s *Service) CompareDeposits(ctx context.Context, filter DepositFilter) (CompareResult, error) {
	if !validRange(filter.FromA, filter.ToA) || !validRange(filter.FromB, filter.ToB) {
		return CompareResult{}, ErrInvalidRange
	}

	resultA, err := s.repo.DepositSummary(ctx, s.depositFundName, filter.FromA, filter.ToA)
	if err != nil {
		return CompareResult{}, err
	}
	resultB, err := s.repo.DepositSummary(ctx, s.depositFundName, filter.FromB, filter.ToB)
	if err != nil {
		return CompareResult{}, err
	}

	deltaAmount := resultA.Total.Sub(resultB.Total)
	deltaPercent := decimal.Zero
	if !resultB.Total.IsZero() {
		deltaPercent = deltaAmount.Div(resultB.Total).Mul(hundred).Round(2)
	}

	return CompareResult{
		PeriodA: resultA,
		PeriodB: resultB,
		Delta: DeltaResult{
			Amount:  deltaAmount,
			Percent: deltaPercent,
		},
	}, nil
}

func normalizeGroupBy(groupBy string) (string, error) {
	groupBy = strings.ToLower(strings.TrimSpace(groupBy))
	switch groupBy {
	case "":
		return GroupByMonth, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return groupBy, nil
	default:
		return "", ErrInvalidGroupBy
	}
}

func validRange(from, to time.Time) bool {
	return !from.IsZero() && !to.IsZero() && !to.Before(from)
}

// truncatePeriod matches postgres date_trunc: weeks start on Monday.
func truncatePeriod(t time.Time, groupBy string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch groupBy {
	case GroupByWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GroupByMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func periodRange(from, to time.Time, groupBy string) []time.Time {
	last := truncatePeriod(to, groupBy)
	var periods []time.Time
	for period := truncatePeriod(from, groupBy); !period.After(last); period = nextPeriod(period, groupBy) {
		periods = append(periods, period)
	}
	return periods
}

func nextPeriod(period time.Time, groupBy string) time.Time {
	switch groupBy {
	case GroupByWeek:
		return period.AddDate(0, 0, 7)
	case GroupByMonth:
		return period.AddDate(0, 1, 0)
	default:
		return period.AddDate(0, 0, 1)
	}
}

func periodKey(t time.Time) string {
	return t.Format("2006-01-02")
}
