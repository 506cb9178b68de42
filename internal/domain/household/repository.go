package household

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateHousehold(ctx context.Context, household *Household) error
	GetHousehold(ctx context.Context, id string) (*Household, error)
	ListHouseholds(ctx context.Context, activeOnly bool) ([]Household, error)
	UpdateIncome(ctx context.Context, id string, income decimal.NullDecimal, updatedAt time.Time) error
	TouchProfile(ctx context.Context, id string, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool) error

	CreateCategory(ctx context.Context, category *PeopleCategory) error
	GetCategory(ctx context.Context, id string) (*PeopleCategory, error)
	ListCategories(ctx context.Context) ([]PeopleCategory, error)

	CreatePerson(ctx context.Context, person *Person) error
	GetPerson(ctx context.Context, id string) (*Person, error)
	DeletePerson(ctx context.Context, id string) error
	ListMembers(ctx context.Context, householdIDs []string) ([]Member, error)

	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	AddTenant(ctx context.Context, tenant RoomTenant) error
	RemoveTenant(ctx context.Context, tenant RoomTenant) (bool, error)
	ListTenants(ctx context.Context) ([]RoomTenant, error)
}
