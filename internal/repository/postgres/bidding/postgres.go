package bidding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	biddingdomain "housing-coop-go/internal/domain/bidding"
	scheduledomain "housing-coop-go/internal/domain/schedule"
	schedulerepo "housing-coop-go/internal/repository/postgres/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(biddingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Schedules() scheduledomain.Repository {
	return schedulerepo.WithDB(r.db)
}

func (r *PostgresRepository) GetOpenRound(ctx context.Context) (*biddingdomain.Round, error) {
	var round biddingdomain.Round
	if err := r.db.WithContext(ctx).Where("status = ?", biddingdomain.StatusOpen).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biddingdomain.ErrNoOpenRound
		}
		return nil, err
	}
	return &round, nil
}

func (r *PostgresRepository) GetRound(ctx context.Context, id string) (*biddingdomain.Round, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, biddingdomain.ErrRoundNotFound
	}
	var round biddingdomain.Round
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biddingdomain.ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *PostgresRepository) CreateRound(ctx context.Context, round *biddingdomain.Round) error {
	err := r.db.WithContext(ctx).Create(round).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return biddingdomain.ErrRoundAlreadyOpen
	}
	return err
}

func (r *PostgresRepository) SetStatus(ctx context.Context, roundID, status string) error {
	result := r.db.WithContext(ctx).Model(&biddingdomain.Round{}).
		Where("id = ? AND status = ?", roundID, biddingdomain.StatusOpen).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return biddingdomain.ErrRoundNotOpen
	}
	return nil
}

func (r *PostgresRepository) LatestDeclinedRound(ctx context.Context, periodStart, periodEnd time.Time) (*biddingdomain.Round, error) {
	var round biddingdomain.Round
	err := r.db.WithContext(ctx).
		Where("status = ? AND period_start = ? AND period_end = ?", biddingdomain.StatusDeclined, periodStart, periodEnd).
		Order("updated_at desc").
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, biddingdomain.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *PostgresRepository) CreateBid(ctx context.Context, bid *biddingdomain.Bid) error {
	err := r.db.WithContext(ctx).Create(bid).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return biddingdomain.ErrBidAlreadySubmitted
	}
	return err
}

func (r *PostgresRepository) GetBid(ctx context.Context, roundID, householdID string) (*biddingdomain.Bid, error) {
	if _, err := uuid.Parse(householdID); err != nil {
		return nil, biddingdomain.ErrBidNotFound
	}
	var bid biddingdomain.Bid
	if err := r.db.WithContext(ctx).Where("round_id = ? AND household_id = ?", roundID, householdID).First(&bid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biddingdomain.ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (r *PostgresRepository) ListBids(ctx context.Context, roundID string) ([]biddingdomain.Bid, error) {
	var bids []biddingdomain.Bid
	if err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("submitted_at asc").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *PostgresRepository) RecalculatePledged(ctx context.Context, roundID string) (decimal.Decimal, error) {
	if err := r.db.WithContext(ctx).Exec(`
		UPDATE bidding_rounds
		SET total_amount_pledged = (SELECT COALESCE(SUM(amount), 0) FROM bids WHERE round_id = ?),
			updated_at = NOW()
		WHERE id = ?
	`, roundID, roundID).Error; err != nil {
		return decimal.Zero, err
	}

	var pledged decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&biddingdomain.Round{}).
		Select("total_amount_pledged").
		Where("id = ?", roundID).
		Row().
		Scan(&pledged); err != nil {
		return decimal.Zero, err
	}
	return pledged, nil
}

type householdRow struct {
	ID     string `gorm:"column:id"`
	Name   string `gorm:"column:name"`
	Active bool   `gorm:"column:active"`
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, id string) (*biddingdomain.Household, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, biddingdomain.ErrHouseholdNotFound
	}

	var rows []householdRow
	if err := r.db.WithContext(ctx).
		Table("households").
		Select("id, name, active").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, biddingdomain.ErrHouseholdNotFound
	}
	return &biddingdomain.Household{ID: rows[0].ID, Name: rows[0].Name, Active: rows[0].Active}, nil
}

func (r *PostgresRepository) ListActiveHouseholds(ctx context.Context) ([]biddingdomain.Household, error) {
	var rows []householdRow
	if err := r.db.WithContext(ctx).
		Table("households").
		Select("id, name, active").
		Where("active = ?", true).
		Order("name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	households := make([]biddingdomain.Household, 0, len(rows))
	for _, row := range rows {
		households = append(households, biddingdomain.Household{ID: row.ID, Name: row.Name, Active: row.Active})
	}
	return households, nil
}

func (r *PostgresRepository) FundingTotals(ctx context.Context, depositFundName string) (decimal.Decimal, decimal.Decimal, error) {
	var fundTargets decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("funds").
		Select("COALESCE(SUM(yearly_target), 0)").
		Where("deleted_at IS NULL AND name <> ?", depositFundName).
		Row().
		Scan(&fundTargets); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	var expenses decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("expenses").
		Select("COALESCE(SUM(yearly_amount), 0)").
		Row().
		Scan(&expenses); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return fundTargets, expenses, nil
}
