package rent

import "github.com/shopspring/decimal"

var monthsPerYear = decimal.NewFromInt(12)

func (in Input) MonthlyTotalRent() decimal.Decimal {
	return in.ExpensesTotal.Add(in.FundTargetsTotal).Div(monthsPerYear)
}

// Calculate returns the rent shares of one active household.
func Calculate(in Input, householdID string) (Shares, error) {
	totals := newTotals(in)
	for _, household := range in.Households {
		if household.ID == householdID {
			return totals.shares(in, household), nil
		}
	}
	return Shares{}, ErrHouseholdNotFound
}

// CalculateAll returns the rent shares of every active household, in input order.
func CalculateAll(in Input) []Shares {
	totals := newTotals(in)
	result := make([]Shares, 0, len(in.Households))
	for _, household := range in.Households {
		result = append(result, totals.shares(in, household))
	}
	return result
}

type totals struct {
	monthly       decimal.Decimal
	area          decimal.Decimal
	communalArea  decimal.Decimal
	headCount     decimal.Decimal
	income        decimal.Decimal
	headCountByID map[string]decimal.Decimal
}

func newTotals(in Input) totals {
	t := totals{
		monthly:       in.MonthlyTotalRent(),
		area:          decimal.Zero,
		communalArea:  decimal.Zero,
		headCount:     decimal.Zero,
		income:        decimal.Zero,
		headCountByID: make(map[string]decimal.Decimal, len(in.Households)),
	}
	for _, household := range in.Households {
		t.headCount = t.headCount.Add(household.HeadCount)
		t.income = t.income.Add(household.AvailableIncome)
		t.headCountByID[household.ID] = household.HeadCount
	}
	for _, room := range in.Rooms {
		t.area = t.area.Add(room.Area)
		if len(room.TenantIDs) == 0 {
			t.communalArea = t.communalArea.Add(room.Area)
		}
	}
	return t
}

func (t totals) shares(in Input, household Household) Shares {
	shares := Shares{
		HouseholdID:       household.ID,
		HouseholdName:     household.Name,
		MonthlyTotalRent:  t.monthly,
		ByArea:            decimal.Zero,
		ByHeadCount:       decimal.Zero,
		ByAvailableIncome: decimal.Zero,
	}

	shares.ByArea, shares.AreaErr = t.byArea(in.Rooms, household)

	if t.headCount.IsZero() {
		shares.HeadCountErr = ErrZeroTotalHeadCount
	} else {
		shares.ByHeadCount = household.HeadCount.Mul(t.monthly).Div(t.headCount)
	}

	if t.income.IsZero() {
		shares.IncomeErr = ErrZeroTotalAvailableIncome
	} else {
		shares.ByAvailableIncome = household.AvailableIncome.Mul(t.monthly).Div(t.income)
	}
	return shares
}

// byArea charges the household its head-count share of the communal area plus, for every room it rents,
// its head-count share among that room's tenants.
func (t totals) byArea(rooms []Room, household Household) (decimal.Decimal, error) {
	if t.area.IsZero() {
		return decimal.Zero, ErrZeroTotalArea
	}

	share := decimal.Zero
	if t.communalArea.IsPositive() {
		if t.headCount.IsZero() {
			return decimal.Zero, ErrZeroTotalHeadCount
		}
		share = t.communalArea.Div(t.area).Mul(t.monthly).Mul(household.HeadCount).Div(t.headCount)
	}

	for _, room := range rooms {
		if !rentedBy(room, household.ID) {
			continue
		}
		roomHeadCount := decimal.Zero
		for _, tenantID := range room.TenantIDs {
			roomHeadCount = roomHeadCount.Add(t.headCountByID[tenantID])
		}
		if roomHeadCount.IsZero() {
			return decimal.Zero, ErrZeroRoomHeadCount
		}
		roomRent := room.Area.Div(t.area).Mul(t.monthly)
		share = share.Add(household.HeadCount.Div(roomHeadCount).Mul(roomRent))
	}
	return share, nil
}

func rentedBy(room Room, householdID string) bool {
	for _, tenantID := range room.TenantIDs {
		if tenantID == householdID {
			return true
		}
	}
	return false
}
