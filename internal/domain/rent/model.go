package rent

import "github.com/shopspring/decimal"

// Household is an active household as the calculator sees it.
type Household struct {
	ID              string
	Name            string
	HeadCount       decimal.Decimal
	AvailableIncome decimal.Decimal
}

type Room struct {
	ID        string
	Name      string
	Area      decimal.Decimal
	TenantIDs []string
}

// Input is everything a rent calculation depends on. Households holds the active households only;
// tenants missing from it weigh nothing.
type Input struct {
	Households       []Household
	Rooms            []Room
	ExpensesTotal    decimal.Decimal
	FundTargetsTotal decimal.Decimal
}

// Shares holds one household's monthly rent under each method. A method that cannot be computed leaves its
// amount at zero and reports why in the matching error field.
type Shares struct {
	HouseholdID       string
	HouseholdName     string
	MonthlyTotalRent  decimal.Decimal
	ByArea            decimal.Decimal
	ByHeadCount       decimal.Decimal
	ByAvailableIncome decimal.Decimal
	AreaErr           error
	HeadCountErr      error
	IncomeErr         error
}
