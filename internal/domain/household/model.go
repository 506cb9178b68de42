package household

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Household struct {
	ID              string              `gorm:"type:uuid;primaryKey"`
	Name            string              `gorm:"not null;uniqueIndex"`
	PasswordHash    string              `gorm:"not null"`
	Role            string              `gorm:"type:varchar(16);not null"`
	Active          bool                `gorm:"not null"`
	Income          decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	LastFullPayment *time.Time          `gorm:"type:date"`
	LastUpdated     *time.Time
	CreatedAt       time.Time           `gorm:"autoCreateTime"`
}

func (h Household) IsAdmin() bool {
	return h.Role == RoleAdmin
}

type PeopleCategory struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null;uniqueIndex"`
	BaseNeed  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Weight    decimal.Decimal `gorm:"type:numeric(6,3);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

type Person struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	HouseholdID string    `gorm:"type:uuid;index;not null"`
	CategoryID  string    `gorm:"type:uuid;not null"`
	Name        string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Person) TableName() string {
	return "people"
}

type Room struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null;uniqueIndex"`
	Area      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

type RoomTenant struct {
	RoomID      string `gorm:"type:uuid;primaryKey"`
	HouseholdID string `gorm:"type:uuid;primaryKey"`
}

// Member is a person joined with the category that carries its weight and base need.
type Member struct {
	Person
	CategoryName string
	Weight       decimal.Decimal
	BaseNeed     decimal.Decimal
}

type Profile struct {
	Household
	Members         []Member
	RoomIDs         []string
	HeadCount       decimal.Decimal
	AvailableIncome decimal.Decimal
}

type RoomWithTenants struct {
	Room
	TenantIDs []string
}

func (r RoomWithTenants) Communal() bool {
	return len(r.TenantIDs) == 0
}

type CreateHouseholdInput struct {
	Name     string
	Password string
	Role     string
	Income   *decimal.Decimal
}

type CreateCategoryInput struct {
	Name     string
	BaseNeed decimal.Decimal
	Weight   decimal.Decimal
}

type CreateRoomInput struct {
	Name string
	Area decimal.Decimal
}

// HeadCount sums the category weights of the members.
func HeadCount(members []Member) decimal.Decimal {
	total := decimal.Zero
	for _, member := range members {
		total = total.Add(member.Weight)
	}
	return total
}

// AvailableIncome is the declared income minus the members' base needs. A household without income counts as zero.
func AvailableIncome(income decimal.NullDecimal, members []Member) decimal.Decimal {
	available := decimal.Zero
	if income.Valid {
		available = income.Decimal
	}
	for _, member := range members {
		available = available.Sub(member.BaseNeed)
	}
	return available
}
