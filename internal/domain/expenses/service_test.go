package expenses

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/changelog"
)

type fakeExpensesRepo struct {
	expenses map[string]*Expense
	log      []changelog.Entry
}

func newFakeExpensesRepo() *fakeExpensesRepo {
	return &fakeExpensesRepo{expenses: make(map[string]*Expense)}
}

func (r *fakeExpensesRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeExpensesRepo) ListExpenses(ctx context.Context, filter ListFilter) ([]Expense, error) {
	items := make([]Expense, 0, len(r.expenses))
	for _, expense := range r.expenses {
		if filter.Type != "" && expense.Type != filter.Type {
			continue
		}
		items = append(items, *expense)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeExpensesRepo) GetExpense(ctx context.Context, id string) (*Expense, error) {
	expense, ok := r.expenses[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	stored := *expense
	return &stored, nil
}

func (r *fakeExpensesRepo) CreateExpense(ctx context.Context, expense *Expense) error {
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *fakeExpensesRepo) UpdateExpense(ctx context.Context, expense *Expense) error {
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *fakeExpensesRepo) DeleteExpense(ctx context.Context, id string) (bool, error) {
	if _, ok := r.expenses[id]; !ok {
		return false, nil
	}
	delete(r.expenses, id)
	return true, nil
}

func (r *fakeExpensesRepo) AppendChangeLog(ctx context.Context, entry *changelog.Entry) error {
	r.log = append(r.log, *entry)
	return nil
}

func TestCreateExpenseWritesChangeLog(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)

	expense, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Name:         "  Grundsteuer ",
		YearlyAmount: decimal.NewFromInt(840),
		Type:         TypeAncillary,
		ActorID:      "admin-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if expense.Name != "Grundsteuer" {
		t.Fatalf("expected trimmed name, got %q", expense.Name)
	}
	if len(repo.log) != 1 {
		t.Fatalf("expected one change log entry, got %d", len(repo.log))
	}
	entry := repo.log[0]
	if entry.ChangeType != changelog.ChangeAdd || entry.EntityID != expense.ID || entry.EntityType != changelog.EntityExpense {
		t.Fatalf("unexpected change log entry %+v", entry)
	}
	if entry.PreviousAmount.Valid || !entry.NewAmount.Decimal.Equal(decimal.NewFromInt(840)) {
		t.Fatalf("expected amounts (nil, 840), got (%v, %v)", entry.PreviousAmount, entry.NewAmount)
	}
	if entry.ActorID == nil || *entry.ActorID != "admin-1" {
		t.Fatalf("expected actor admin-1, got %v", entry.ActorID)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(newFakeExpensesRepo())
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, CreateExpenseInput{Name: "Miete", YearlyAmount: decimal.NewFromInt(1), Type: "other"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.CreateExpense(ctx, CreateExpenseInput{Name: "Miete", YearlyAmount: decimal.NewFromInt(-1), Type: TypeRent}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.CreateExpense(ctx, CreateExpenseInput{Name: " ", YearlyAmount: decimal.NewFromInt(1), Type: TypeRent}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateExpenseRecordsPreviousAmount(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, CreateExpenseInput{Name: "Miete", YearlyAmount: decimal.NewFromInt(12000), Type: TypeRent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateExpense(ctx, UpdateExpenseInput{ID: created.ID, Name: "Miete", YearlyAmount: decimal.NewFromInt(12600), Type: TypeRent})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.YearlyAmount.Equal(decimal.NewFromInt(12600)) {
		t.Fatalf("expected 12600, got %s", updated.YearlyAmount)
	}

	entry := repo.log[len(repo.log)-1]
	if entry.ChangeType != changelog.ChangeEdit {
		t.Fatalf("expected edit entry, got %q", entry.ChangeType)
	}
	if !entry.PreviousAmount.Decimal.Equal(decimal.NewFromInt(12000)) || !entry.NewAmount.Decimal.Equal(decimal.NewFromInt(12600)) {
		t.Fatalf("expected amounts (12000, 12600), got (%s, %s)", entry.PreviousAmount.Decimal, entry.NewAmount.Decimal)
	}
	if entry.Details != "changed expense Miete from 12000.00 to 12600.00" {
		t.Fatalf("unexpected details %q", entry.Details)
	}

	if _, err := svc.UpdateExpense(ctx, UpdateExpenseInput{ID: "missing", Name: "x", Type: TypeRent}); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, CreateExpenseInput{Name: "Versicherung", YearlyAmount: decimal.NewFromInt(300), Type: TypeAncillary})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteExpense(ctx, created.ID, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.expenses) != 0 {
		t.Fatalf("expected expense removed")
	}

	entry := repo.log[len(repo.log)-1]
	if entry.ChangeType != changelog.ChangeDelete || entry.NewAmount.Valid || entry.ActorID != nil {
		t.Fatalf("unexpected delete entry %+v", entry)
	}

	if err := svc.DeleteExpense(ctx, created.ID, ""); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestTotals(t *testing.T) {
	repo := newFakeExpensesRepo()
	svc := NewService(repo)
	ctx := context.Background()

	inputs := []CreateExpenseInput{
		{Name: "Kredit", YearlyAmount: decimal.NewFromInt(9000), Type: TypeRent},
		{Name: "Pacht", YearlyAmount: decimal.NewFromInt(1000), Type: TypeRent},
		{Name: "Muell", YearlyAmount: decimal.NewFromInt(250), Type: TypeAncillary},
	}
	for _, input := range inputs {
		if _, err := svc.CreateExpense(ctx, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !totals.Rent.Equal(decimal.NewFromInt(10000)) || !totals.Ancillary.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected rent 10000 and ancillary 250, got %s and %s", totals.Rent, totals.Ancillary)
	}
	if !totals.Monthly.Equal(decimal.RequireFromString("854.17")) {
		t.Fatalf("expected monthly 854.17, got %s", totals.Monthly)
	}

	rentOnly, err := svc.ListExpenses(ctx, ListFilter{Type: TypeRent})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rentOnly) != 2 {
		t.Fatalf("expected two rent expenses, got %d", len(rentOnly))
	}
}
