package expenses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"housing-coop-go/internal/domain/changelog"
	expensesdomain "housing-coop-go/internal/domain/expenses"
	changelogrepo "housing-coop-go/internal/repository/postgres/changelog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(expensesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, filter expensesdomain.ListFilter) ([]expensesdomain.Expense, error) {
	query := r.db.WithContext(ctx).Model(&expensesdomain.Expense{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var items []expensesdomain.Expense
	if err := query.Order("type asc, name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetExpense(ctx context.Context, id string) (*expensesdomain.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, expensesdomain.ErrExpenseNotFound
	}
	var expense expensesdomain.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expensesdomain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return r.db.WithContext(ctx).
		Model(&expensesdomain.Expense{}).
		Where("id = ?", expense.ID).
		Updates(map[string]any{
			"name":          expense.Name,
			"yearly_amount": expense.YearlyAmount,
			"type":          expense.Type,
			"updated_at":    expense.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&expensesdomain.Expense{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) AppendChangeLog(ctx context.Context, entry *changelog.Entry) error {
	return changelogrepo.Append(ctx, r.db, entry)
}
