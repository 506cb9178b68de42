package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	scheduledomain "housing-coop-go/internal/domain/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// WithDB binds the repository to an existing handle, typically an open transaction owned by another repository.
func WithDB(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(scheduledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

type householdRow struct {
	ID              string     `gorm:"column:id"`
	Name            string     `gorm:"column:name"`
	LastFullPayment *time.Time `gorm:"column:last_full_payment"`
}

func (row householdRow) toDomain() scheduledomain.Household {
	return scheduledomain.Household{ID: row.ID, Name: row.Name, LastFullPayment: row.LastFullPayment}
}

func (r *PostgresRepository) ListHouseholds(ctx context.Context) ([]scheduledomain.Household, error) {
	var rows []householdRow
	if err := r.db.WithContext(ctx).
		Table("households").
		Select("id, name, last_full_payment").
		Order("name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	households := make([]scheduledomain.Household, 0, len(rows))
	for _, row := range rows {
		households = append(households, row.toDomain())
	}
	return households, nil
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, id string) (*scheduledomain.Household, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, scheduledomain.ErrHouseholdNotFound
	}

	var rows []householdRow
	if err := r.db.WithContext(ctx).
		Table("households").
		Select("id, name, last_full_payment").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, scheduledomain.ErrHouseholdNotFound
	}
	household := rows[0].toDomain()
	return &household, nil
}

func (r *PostgresRepository) UpdateLastFullPayment(ctx context.Context, householdID string, marker time.Time) error {
	return r.db.WithContext(ctx).
		Table("households").
		Where("id = ?", householdID).
		Update("last_full_payment", marker).Error
}

func (r *PostgresRepository) FindCovering(ctx context.Context, householdID, kind string, date time.Time) (*scheduledomain.Schedule, error) {
	var record scheduledomain.Schedule
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND kind = ? AND start_date <= ? AND end_date >= ?", householdID, kind, date, date).
		Order("start_date desc").
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduledomain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListSchedules(ctx context.Context, householdID string) ([]scheduledomain.Schedule, error) {
	var records []scheduledomain.Schedule
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("start_date desc").
		Order("kind asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) CloseRunning(ctx context.Context, householdID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Model(&scheduledomain.Schedule{}).
		Where("household_id = ? AND end_date >= ?", householdID, date).
		Update("end_date", date).Error
}

func (r *PostgresRepository) CreateSchedule(ctx context.Context, schedule *scheduledomain.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// SumConfirmedDeposits only counts direct payments; transfer legs moved by the ledger itself are excluded.
func (r *PostgresRepository) SumConfirmedDeposits(ctx context.Context, householdID, depositFundName string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Table("transactions").
		Select("COALESCE(SUM(transactions.amount), 0)").
		Joins("join funds on funds.id = transactions.fund_id").
		Where("funds.name = ? AND funds.deleted_at IS NULL", depositFundName).
		Where("transactions.household_id = ? AND transactions.confirmed = ?", householdID, true).
		Where("transactions.transfer_id IS NULL").
		Where("transactions.date >= ? AND transactions.date < ?", from, to).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
