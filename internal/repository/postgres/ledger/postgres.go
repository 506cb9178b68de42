package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"housing-coop-go/internal/domain/changelog"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
	changelogrepo "housing-coop-go/internal/repository/postgres/changelog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateFund(ctx context.Context, fund *ledgerdomain.Fund) error {
	err := r.db.WithContext(ctx).Create(fund).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ledgerdomain.ErrFundNameTaken
	}
	return err
}

func (r *PostgresRepository) GetFund(ctx context.Context, id string) (*ledgerdomain.Fund, error) {
	if !validID(id) {
		return nil, ledgerdomain.ErrFundNotFound
	}
	var fund ledgerdomain.Fund
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (r *PostgresRepository) GetFundByName(ctx context.Context, name string) (*ledgerdomain.Fund, error) {
	var fund ledgerdomain.Fund
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&fund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (r *PostgresRepository) ListFunds(ctx context.Context) ([]ledgerdomain.Fund, error) {
	var funds []ledgerdomain.Fund
	if err := r.db.WithContext(ctx).Order("name asc").Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (r *PostgresRepository) UpdateFund(ctx context.Context, id, name string, yearlyTarget decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&ledgerdomain.Fund{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "yearly_target": yearlyTarget}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ledgerdomain.ErrFundNameTaken
	}
	return err
}

func (r *PostgresRepository) SoftDeleteFund(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ledgerdomain.Fund{}, "id = ?", id).Error
}

func (r *PostgresRepository) IncrementBalance(ctx context.Context, fundID string, delta decimal.Decimal) error {
	if !validID(fundID) {
		return ledgerdomain.ErrFundNotFound
	}
	result := r.db.WithContext(ctx).Model(&ledgerdomain.Fund{}).
		Where("id = ?", fundID).
		Update("current_balance", gorm.Expr("current_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrFundNotFound
	}
	return nil
}

func (r *PostgresRepository) HouseholdExists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Table("households").Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id string) (*ledgerdomain.Transaction, error) {
	if !validID(id) {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	var transaction ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) ListTransferLegs(ctx context.Context, transferID string) ([]ledgerdomain.Transaction, error) {
	var legs []ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("amount asc").
		Find(&legs).Error; err != nil {
		return nil, err
	}
	return legs, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, filter ledgerdomain.TransactionFilter) ([]ledgerdomain.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&ledgerdomain.Transaction{})
	if filter.FundID != "" {
		query = query.Where("fund_id = ?", filter.FundID)
	}
	if filter.HouseholdID != "" {
		query = query.Where("household_id = ?", filter.HouseholdID)
	}
	if filter.PendingOnly {
		query = query.Where("confirmed = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var transactions []ledgerdomain.Transaction
	if err := query.Order("date asc").Order("created_at asc").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *PostgresRepository) MarkConfirmed(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&ledgerdomain.Transaction{}).
		Where("id IN ? AND confirmed = ?", ids, false).
		Update("confirmed", true)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteTransactions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ? AND confirmed = ?", ids, false).Delete(&ledgerdomain.Transaction{}).Error
}

func (r *PostgresRepository) ConfirmedSumsByFund(ctx context.Context) (map[string]decimal.Decimal, error) {
	type sumRow struct {
		FundID string          `gorm:"column:fund_id"`
		Total  decimal.Decimal `gorm:"column:total"`
	}

	var rows []sumRow
	if err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Select("fund_id, COALESCE(SUM(amount), 0) AS total").
		Where("confirmed = ?", true).
		Group("fund_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.FundID] = row.Total
	}
	return sums, nil
}

func (r *PostgresRepository) ListAllTransferLegs(ctx context.Context) ([]ledgerdomain.Transaction, error) {
	var legs []ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("transfer_id IS NOT NULL").
		Order("transfer_id asc").
		Order("amount asc").
		Find(&legs).Error; err != nil {
		return nil, err
	}
	return legs, nil
}

func (r *PostgresRepository) AppendChangeLog(ctx context.Context, entry *changelog.Entry) error {
	return changelogrepo.Append(ctx, r.db, entry)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
