package expenses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/changelog"
)

var monthsPerYear = decimal.NewFromInt(12)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, error) {
	if filter.Type != "" {
		if err := validateType(filter.Type); err != nil {
			return nil, err
		}
	}
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) GetExpense(ctx context.Context, id string) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*Expense, error) {
	name, err := validateInput(input.Name, input.YearlyAmount, input.Type)
	if err != nil {
		return nil, err
	}

	expense := Expense{
		ID:           uuid.NewString(),
		Name:         name,
		YearlyAmount: input.YearlyAmount,
		Type:         input.Type,
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateExpense(ctx, &expense); err != nil {
			return err
		}
		entry := changelog.NewEntry(changelog.EntityExpense, expense.ID, changelog.ChangeAdd,
			fmt.Sprintf("added %s expense %s", expense.Type, expense.Name), input.ActorID).
			WithAmounts(nil, &expense.YearlyAmount)
		return tx.AppendChangeLog(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*Expense, error) {
	name, err := validateInput(input.Name, input.YearlyAmount, input.Type)
	if err != nil {
		return nil, err
	}

	var updated Expense
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpense(ctx, input.ID)
		if err != nil {
			return err
		}
		previous := expense.YearlyAmount

		expense.Name = name
		expense.YearlyAmount = input.YearlyAmount
		expense.Type = input.Type
		expense.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateExpense(ctx, expense); err != nil {
			return err
		}

		entry := changelog.NewEntry(changelog.EntityExpense, expense.ID, changelog.ChangeEdit,
			describeEdit(previous, *expense), input.ActorID).
			WithAmounts(&previous, &expense.YearlyAmount)
		if err := tx.AppendChangeLog(ctx, entry); err != nil {
			return err
		}

		updated = *expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id, actorID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpense(ctx, id)
		if err != nil {
			return err
		}

		deleted, err := tx.DeleteExpense(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrExpenseNotFound
		}

		entry := changelog.NewEntry(changelog.EntityExpense, id, changelog.ChangeDelete,
			"deleted expense "+expense.Name, actorID).
			WithAmounts(&expense.YearlyAmount, nil)
		return tx.AppendChangeLog(ctx, entry)
	})
}

// Totals sums the yearly amounts per type. Monthly is the yearly total spread over twelve months.
func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	expenses, err := s.repo.ListExpenses(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	totals := &Totals{Rent: decimal.Zero, Ancillary: decimal.Zero}
	for _, expense := range expenses {
		switch expense.Type {
		case TypeRent:
			totals.Rent = totals.Rent.Add(expense.YearlyAmount)
		case TypeAncillary:
			totals.Ancillary = totals.Ancillary.Add(expense.YearlyAmount)
		}
	}
	totals.Yearly = totals.Rent.Add(totals.Ancillary)
	totals.Monthly = totals.Yearly.Div(monthsPerYear).Round(2)
	return totals, nil
}

func validateInput(name string, amount decimal.Decimal, expenseType string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return "", ErrInvalidAmount
	}
	if err := validateType(expenseType); err != nil {
		return "", err
	}
	return name, nil
}

func validateType(expenseType string) error {
	switch expenseType {
	case TypeRent, TypeAncillary:
		return nil
	default:
		return ErrInvalidType
	}
}

func describeEdit(previous decimal.Decimal, expense Expense) string {
	if previous.Equal(expense.YearlyAmount) {
		return "updated expense " + expense.Name
	}
	return fmt.Sprintf("changed expense %s from %s to %s", expense.Name, previous.StringFixed(2), expense.YearlyAmount.StringFixed(2))
}
