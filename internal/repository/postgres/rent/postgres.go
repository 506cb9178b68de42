package rent

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FundingTotals(ctx context.Context, depositFundName string) (decimal.Decimal, decimal.Decimal, error) {
	var expenses decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("expenses").
		Select("COALESCE(SUM(yearly_amount), 0)").
		Row().
		Scan(&expenses); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}

	var fundTargets decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("funds").
		Select("COALESCE(SUM(yearly_target), 0)").
		Where("deleted_at IS NULL AND name <> ?", depositFundName).
		Row().
		Scan(&fundTargets); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum fund targets: %w", err)
	}
	return expenses, fundTargets, nil
}
