package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindCash = "cash"
	KindGiro = "giro"
)

// Schedule is a recurring monthly obligation valid over [StartDate, EndDate].
type Schedule struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	HouseholdID string          `gorm:"type:uuid;index;not null"`
	Kind        string          `gorm:"type:varchar(8);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     time.Time       `gorm:"type:date;not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (s Schedule) Covers(date time.Time) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

type Household struct {
	ID              string
	Name            string
	LastFullPayment *time.Time
}

type MissingPayment struct {
	Month    time.Time
	Required decimal.Decimal
	Paid     decimal.Decimal
	Deficit  decimal.Decimal
}

type Arrears struct {
	HouseholdID   string
	HouseholdName string
	Months        []MissingPayment
}

type Obligation struct {
	HouseholdID string
	At          time.Time
	Cash        decimal.Decimal
	Giro        decimal.Decimal
	CashRecord  *Schedule
	GiroRecord  *Schedule
}

func (o Obligation) Total() decimal.Decimal {
	return o.Cash.Add(o.Giro)
}
