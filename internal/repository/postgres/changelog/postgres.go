package changelog

import (
	"context"

	"gorm.io/gorm"
	changelogdomain "housing-coop-go/internal/domain/changelog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter changelogdomain.ListFilter) ([]changelogdomain.Entry, error) {
	query := r.db.WithContext(ctx).Model(&changelogdomain.Entry{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var entries []changelogdomain.Entry
	if err := query.Order("created_at desc").Limit(filter.Limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Append writes entry using the given handle, so callers inside a transaction pass their tx.
func Append(ctx context.Context, db *gorm.DB, entry *changelogdomain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}
