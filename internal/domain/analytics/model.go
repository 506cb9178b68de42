package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

type BalanceFilter struct {
	From    time.Time
	To      time.Time
	GroupBy string
	FundIDs []string
}

// FundFlow is the sum of confirmed transactions of one fund within one period bucket.
type FundFlow struct {
	Period   time.Time
	FundID   string
	FundName string
	Amount   decimal.Decimal
	Count    int64
}

// FundOpening is the confirmed balance of a fund before the filter range starts.
type FundOpening struct {
	FundID   string
	FundName string
	Balance  decimal.Decimal
}

type BalancePoint struct {
	Period  time.Time
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

type FundSeries struct {
	FundID   string
	FundName string
	Points   []BalancePoint
}

// RentChange is one change log entry priced as the difference it made to a yearly amount.
type RentChange struct {
	Date       time.Time
	EntityType string
	EntityID   string
	Name       string
	Delta      decimal.Decimal
}

type RentPoint struct {
	Date    time.Time
	Monthly decimal.Decimal
}

type RentSeries struct {
	EntityType string
	EntityID   string
	Name       string
	Points     []RentPoint
}

type RentDevelopment struct {
	Series       []RentSeries
	CurrentTotal decimal.Decimal
}

type DepositFilter struct {
	FromA time.Time
	ToA   time.Time
	FromB time.Time
	ToB   time.Time
}

type DepositSummary struct {
	Total decimal.Decimal
	Count int64
}

type CompareResult struct {
	PeriodA DepositSummary
	PeriodB DepositSummary
	Delta   DeltaResult
}

type DeltaResult struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
}
