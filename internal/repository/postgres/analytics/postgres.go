package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	analyticsdomain "housing-coop-go/internal/domain/analytics"
)

const dateLayout = "2006-01-02"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FundOpenings(ctx context.Context, before time.Time, fundIDs []string) ([]analyticsdomain.FundOpening, error) {
	conditions := []string{"f.deleted_at IS NULL"}
	args := []interface{}{before}
	if len(fundIDs) > 0 {
		conditions = append(conditions, "f.id IN (?)")
		args = append(args, fundIDs)
	}

	query := "SELECT f.id AS fund_id, f.name AS fund_name, COALESCE(SUM(t.amount), 0) AS balance " +
		"FROM funds f " +
		"LEFT JOIN transactions t ON t.fund_id = f.id AND t.confirmed AND t.date < ? " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"GROUP BY f.id, f.name ORDER BY f.name"

	var rows []analyticsdomain.FundOpening
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) FundFlows(ctx context.Context, filter analyticsdomain.BalanceFilter) ([]analyticsdomain.FundFlow, error) {
	groupBy := strings.ToLower(strings.TrimSpace(filter.GroupBy))
	if groupBy != analyticsdomain.GroupByDay && groupBy != analyticsdomain.GroupByWeek && groupBy != analyticsdomain.GroupByMonth {
		return nil, analyticsdomain.ErrInvalidGroupBy
	}

	conditions := []string{"f.deleted_at IS NULL", "t.confirmed", "t.date >= ?", "t.date <= ?"}
	args := []interface{}{filter.From, filter.To}
	if len(filter.FundIDs) > 0 {
		conditions = append(conditions, "f.id IN (?)")
		args = append(args, filter.FundIDs)
	}

	// t.date is a DATE; truncating it as a timestamp keeps bucket boundaries on calendar days.
	periodExpr := fmt.Sprintf("date_trunc('%s', t.date::timestamp)", groupBy)
	query := fmt.Sprintf("SELECT to_char(%s, 'YYYY-MM-DD') AS period, f.id AS fund_id, f.name AS fund_name, "+
		"COALESCE(SUM(t.amount), 0) AS amount, COUNT(*) AS count "+
		"FROM transactions t JOIN funds f ON f.id = t.fund_id WHERE %s "+
		"GROUP BY 1, f.id, f.name ORDER BY 1, f.name", periodExpr, strings.Join(conditions, " AND "))

	var rows []struct {
		Period   string          `gorm:"column:period"`
		FundID   string          `gorm:"column:fund_id"`
		FundName string          `gorm:"column:fund_name"`
		Amount   decimal.Decimal `gorm:"column:amount"`
		Count    int64           `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	flows := make([]analyticsdomain.FundFlow, 0, len(rows))
	for _, row := range rows {
		period, err := time.Parse(dateLayout, row.Period)
		if err != nil {
			return nil, fmt.Errorf("parse period %q: %w", row.Period, err)
		}
		flows = append(flows, analyticsdomain.FundFlow{
			Period:   period,
			FundID:   row.FundID,
			FundName: row.FundName,
			Amount:   row.Amount,
			Count:    row.Count,
		})
	}
	return flows, nil
}

// RentChanges prices every change log entry as new minus previous yearly amount.
// Deleted funds keep their name through the soft delete; deleted expenses fall back to their id.
func (r *PostgresRepository) RentChanges(ctx context.Context) ([]analyticsdomain.RentChange, error) {
	query := "SELECT c.created_at AS date, c.entity_type, c.entity_id, COALESCE(e.name, f.name, '') AS name, " +
		"COALESCE(c.new_amount, 0) - COALESCE(c.previous_amount, 0) AS delta " +
		"FROM change_logs c " +
		"LEFT JOIN expenses e ON c.entity_type = 'expense' AND e.id = c.entity_id " +
		"LEFT JOIN funds f ON c.entity_type = 'fund' AND f.id = c.entity_id " +
		"ORDER BY c.created_at, c.id"

	var rows []analyticsdomain.RentChange
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DepositSummary counts confirmed household payments into the named fund. Transfer legs are excluded.
func (r *PostgresRepository) DepositSummary(ctx context.Context, fundName string, from, to time.Time) (analyticsdomain.DepositSummary, error) {
	query := "SELECT COALESCE(SUM(t.amount), 0) AS total, COUNT(*) AS count " +
		"FROM transactions t JOIN funds f ON f.id = t.fund_id " +
		"WHERE f.name = ? AND f.deleted_at IS NULL AND t.confirmed AND t.transfer_id IS NULL AND t.date >= ? AND t.date <= ?"

	var row analyticsdomain.DepositSummary
	if err := r.db.WithContext(ctx).Raw(query, fundName, from, to).Scan(&row).Error; err != nil {
		return analyticsdomain.DepositSummary{}, err
	}
	return row, nil
}
