package bidding

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusOpen     = "open"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// cashUnit is the granularity of the cash leg; cash changes hands as notes.
var cashUnit = decimal.NewFromInt(5)

type Round struct {
	ID                 string          `gorm:"type:uuid;primaryKey"`
	Status             string          `gorm:"type:varchar(16);not null"`
	TotalCashNeeded    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalGiroNeeded    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalAmountPledged decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PeriodStart        time.Time       `gorm:"type:date;not null"`
	PeriodEnd          time.Time       `gorm:"type:date;not null"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime"`
}

func (Round) TableName() string {
	return "bidding_rounds"
}

func (r Round) TotalAmountNeeded() decimal.Decimal {
	return r.TotalCashNeeded.Add(r.TotalGiroNeeded)
}

// AmountShortfall is positive when pledges fall short of the need and negative on a surplus.
func (r Round) AmountShortfall() decimal.Decimal {
	return r.TotalAmountNeeded().Sub(r.TotalAmountPledged)
}

type Bid struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	HouseholdID string          `gorm:"type:uuid;not null"`
	RoundID     string          `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SubmittedAt time.Time       `gorm:"autoCreateTime"`
}

type Household struct {
	ID     string
	Name   string
	Active bool
}

type RoundStatus struct {
	Round            Round
	Bids             []Bid
	ActiveHouseholds int
	Complete         bool
	MissingBids      []Household
}

type Allocation struct {
	HouseholdID string
	Bid         decimal.Decimal
	Proportion  decimal.Decimal
	Cash        decimal.Decimal
	Giro        decimal.Decimal
}

type AcceptResult struct {
	Round               Round
	EffectiveCashNeeded decimal.Decimal
	Allocations         []Allocation
}

// DefaultBid is the re-bid guidance for a household after a declined round.
type DefaultBid struct {
	RoundID   string
	Amount    decimal.Decimal
	Shortfall decimal.Decimal
}
