package household

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	householddomain "housing-coop-go/internal/domain/household"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(householddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateHousehold(ctx context.Context, household *householddomain.Household) error {
	err := r.db.WithContext(ctx).Create(household).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return householddomain.ErrHouseholdNameTaken
	}
	return err
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, id string) (*householddomain.Household, error) {
	var household householddomain.Household
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) ListHouseholds(ctx context.Context, activeOnly bool) ([]householddomain.Household, error) {
	query := r.db.WithContext(ctx).Model(&householddomain.Household{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var households []householddomain.Household
	if err := query.Order("name asc").Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *PostgresRepository) UpdateIncome(ctx context.Context, id string, income decimal.NullDecimal, updatedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&householddomain.Household{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"income": income, "last_updated": updatedAt}).Error
}

func (r *PostgresRepository) TouchProfile(ctx context.Context, id string, updatedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&householddomain.Household{}).
		Where("id = ?", id).
		Update("last_updated", updatedAt).Error
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&householddomain.Household{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *householddomain.PeopleCategory) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return householddomain.ErrCategoryNameTaken
	}
	return err
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (*householddomain.PeopleCategory, error) {
	var category householddomain.PeopleCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]householddomain.PeopleCategory, error) {
	var categories []householddomain.PeopleCategory
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) CreatePerson(ctx context.Context, person *householddomain.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *PostgresRepository) GetPerson(ctx context.Context, id string) (*householddomain.Person, error) {
	var person householddomain.Person
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) DeletePerson(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&householddomain.Person{}, "id = ?", id).Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, householdIDs []string) ([]householddomain.Member, error) {
	if len(householdIDs) == 0 {
		return []householddomain.Member{}, nil
	}

	type memberRow struct {
		ID           string          `gorm:"column:id"`
		HouseholdID  string          `gorm:"column:household_id"`
		CategoryID   string          `gorm:"column:category_id"`
		Name         string          `gorm:"column:name"`
		CreatedAt    time.Time       `gorm:"column:created_at"`
		CategoryName string          `gorm:"column:category_name"`
		Weight       decimal.Decimal `gorm:"column:weight"`
		BaseNeed     decimal.Decimal `gorm:"column:base_need"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("people").
		Select("people.id, people.household_id, people.category_id, people.name, people.created_at, people_categories.name AS category_name, people_categories.weight, people_categories.base_need").
		Joins("join people_categories on people_categories.id = people.category_id").
		Where("people.household_id IN ?", householdIDs).
		Order("people.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]householddomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, householddomain.Member{
			Person: householddomain.Person{
				ID:          row.ID,
				HouseholdID: row.HouseholdID,
				CategoryID:  row.CategoryID,
				Name:        row.Name,
				CreatedAt:   row.CreatedAt,
			},
			CategoryName: row.CategoryName,
			Weight:       row.Weight,
			BaseNeed:     row.BaseNeed,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CreateRoom(ctx context.Context, room *householddomain.Room) error {
	err := r.db.WithContext(ctx).Create(room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return householddomain.ErrRoomNameTaken
	}
	return err
}

func (r *PostgresRepository) GetRoom(ctx context.Context, id string) (*householddomain.Room, error) {
	var room householddomain.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *PostgresRepository) ListRooms(ctx context.Context) ([]householddomain.Room, error) {
	var rooms []householddomain.Room
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *PostgresRepository) AddTenant(ctx context.Context, tenant householddomain.RoomTenant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tenant).Error
}

func (r *PostgresRepository) RemoveTenant(ctx context.Context, tenant householddomain.RoomTenant) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND household_id = ?", tenant.RoomID, tenant.HouseholdID).
		Delete(&householddomain.RoomTenant{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListTenants(ctx context.Context) ([]householddomain.RoomTenant, error) {
	var tenants []householddomain.RoomTenant
	if err := r.db.WithContext(ctx).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
