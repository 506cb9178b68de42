package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Fund struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	Name           string          `gorm:"not null"`
	YearlyTarget   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// Transaction is a signed entry against one fund. Balances only move when it is confirmed.
type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	FundID      string          `gorm:"type:uuid;index;not null"`
	HouseholdID string          `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Date        time.Time       `gorm:"type:date;not null"`
	Comment     *string         `gorm:"type:text"`
	Confirmed   bool            `gorm:"not null"`
	TransferID  *string         `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

type RecordTransactionInput struct {
	FundID      string
	HouseholdID string
	Amount      decimal.Decimal
	Date        time.Time
	Comment     string
}

type TransferInput struct {
	FromFundID  string
	ToFundID    string
	Amount      decimal.Decimal
	HouseholdID string
	Date        time.Time
	Comment     string
}

type CreateFundInput struct {
	Name         string
	YearlyTarget decimal.Decimal
	ActorID      string
}

type UpdateFundInput struct {
	ID           string
	Name         string
	YearlyTarget decimal.Decimal
	ActorID      string
}

type TransactionFilter struct {
	FundID      string
	HouseholdID string
	PendingOnly bool
	Limit       int
}

// PendingGroup is what the confirmation screen shows: a lone entry or both legs of a transfer.
type PendingGroup struct {
	TransferID   string
	Transactions []Transaction
}

type DeleteFundResult struct {
	Closing *Transaction
	Credit  *Transaction
}

type DistributionShare struct {
	FundID     string
	FundName   string
	TransferID string
	Amount     decimal.Decimal
	Balance    decimal.Decimal
}

type DistributionResult struct {
	Distributed decimal.Decimal
	Residue     decimal.Decimal
	Shares      []DistributionShare
}

const (
	IssueBalanceMismatch  = "balance_mismatch"
	IssueTransferSize     = "transfer_size"
	IssueTransferSum      = "transfer_sum"
	IssueTransferSameFund = "transfer_same_fund"
	IssueTransferPartial  = "transfer_partially_confirmed"
)

type IntegrityIssue struct {
	Kind       string
	FundID     string
	TransferID string
	Detail     string
}

type IntegrityReport struct {
	FundsChecked     int
	TransfersChecked int
	Issues           []IntegrityIssue
}

func (r IntegrityReport) OK() bool {
	return len(r.Issues) == 0
}
