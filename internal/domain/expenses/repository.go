package expenses

import (
	"context"

	"housing-coop-go/internal/domain/changelog"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, error)
	GetExpense(ctx context.Context, id string) (*Expense, error)
	CreateExpense(ctx context.Context, expense *Expense) error
	UpdateExpense(ctx context.Context, expense *Expense) error
	DeleteExpense(ctx context.Context, id string) (bool, error)

	AppendChangeLog(ctx context.Context, entry *changelog.Entry) error
}
