package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/changelog"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateFund(ctx context.Context, fund *Fund) error
	GetFund(ctx context.Context, id string) (*Fund, error)
	GetFundByName(ctx context.Context, name string) (*Fund, error)
	ListFunds(ctx context.Context) ([]Fund, error)
	UpdateFund(ctx context.Context, id, name string, yearlyTarget decimal.Decimal) error
	SoftDeleteFund(ctx context.Context, id string) error
	// IncrementBalance adds delta to a live fund's balance in place. Returns ErrFundNotFound when no live row matched.
	IncrementBalance(ctx context.Context, fundID string, delta decimal.Decimal) error

	HouseholdExists(ctx context.Context, id string) (bool, error)

	CreateTransaction(ctx context.Context, transaction *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransferLegs(ctx context.Context, transferID string) ([]Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	// MarkConfirmed flips only rows that are still pending and reports how many it changed.
	MarkConfirmed(ctx context.Context, ids []string) (int64, error)
	DeleteTransactions(ctx context.Context, ids []string) error

	ConfirmedSumsByFund(ctx context.Context) (map[string]decimal.Decimal, error)
	ListAllTransferLegs(ctx context.Context) ([]Transaction, error)

	AppendChangeLog(ctx context.Context, entry *changelog.Entry) error
}
