package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeRent      = "rent"
	TypeAncillary = "ancillary"
)

// Expense is a recurring yearly cost of the house.
type Expense struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"not null"`
	YearlyAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type         string          `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

type CreateExpenseInput struct {
	Name         string
	YearlyAmount decimal.Decimal
	Type         string
	ActorID      string
}

type UpdateExpenseInput struct {
	ID           string
	Name         string
	YearlyAmount decimal.Decimal
	Type         string
	ActorID      string
}

type ListFilter struct {
	Type string
}

type Totals struct {
	Rent      decimal.Decimal
	Ancillary decimal.Decimal
	Yearly    decimal.Decimal
	Monthly   decimal.Decimal
}
