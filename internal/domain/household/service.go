package household

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopCache{}, now: time.Now}
}

// WithCache serves GetHousehold from cache for ttl. A nil cache or non-positive ttl disables caching.
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		s.cache, s.cacheTTL = noopCache{}, 0
		return s
	}
	s.cache, s.cacheTTL = cache, ttl
	return s
}

func (s *Service) CreateHousehold(ctx context.Context, input CreateHouseholdInput) (*Household, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = RoleUser
	}
	if role != RoleAdmin && role != RoleUser {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	household := Household{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if input.Income != nil {
		if input.Income.IsNegative() {
			return nil, fmt.Errorf("%w: income must not be negative", ErrInvalidInput)
		}
		now := s.now().UTC()
		household.Income = decimal.NewNullDecimal(*input.Income)
		household.LastUpdated = &now
	}

	if err := s.repo.CreateHousehold(ctx, &household); err != nil {
		return nil, err
	}
	return &household, nil
}

func (s *Service) GetHousehold(ctx context.Context, id string) (*Household, error) {
	if household, ok := s.cache.Get(id); ok {
		return household, nil
	}
	household, err := s.repo.GetHousehold(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id, household, s.cacheTTL)
	return household, nil
}

func (s *Service) ListHouseholds(ctx context.Context, activeOnly bool) ([]Household, error) {
	return s.repo.ListHouseholds(ctx, activeOnly)
}

// GetProfile loads the household with its members and rooms and the derived head count and available income.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	household, err := s.repo.GetHousehold(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles, err := s.buildProfiles(ctx, []Household{*household})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *Service) ListProfiles(ctx context.Context, activeOnly bool) ([]Profile, error) {
	households, err := s.repo.ListHouseholds(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return s.buildProfiles(ctx, households)
}

func (s *Service) buildProfiles(ctx context.Context, households []Household) ([]Profile, error) {
	if len(households) == 0 {
		return []Profile{}, nil
	}

	ids := make([]string, 0, len(households))
	for _, household := range households {
		ids = append(ids, household.ID)
	}

	members, err := s.repo.ListMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	membersByHousehold := make(map[string][]Member, len(households))
	for _, member := range members {
		membersByHousehold[member.HouseholdID] = append(membersByHousehold[member.HouseholdID], member)
	}

	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	roomsByHousehold := make(map[string][]string)
	for _, tenant := range tenants {
		roomsByHousehold[tenant.HouseholdID] = append(roomsByHousehold[tenant.HouseholdID], tenant.RoomID)
	}

	profiles := make([]Profile, 0, len(households))
	for _, household := range households {
		householdMembers := membersByHousehold[household.ID]
		profiles = append(profiles, Profile{
			Household:       household,
			Members:         householdMembers,
			RoomIDs:         roomsByHousehold[household.ID],
			HeadCount:       HeadCount(householdMembers),
			AvailableIncome: AvailableIncome(household.Income, householdMembers),
		})
	}
	return profiles, nil
}

// UpdateIncome sets the declared income and marks the profile as freshly reviewed.
func (s *Service) UpdateIncome(ctx context.Context, id string, income decimal.Decimal) (*Household, error) {
	if income.IsNegative() {
		return nil, fmt.Errorf("%w: income must not be negative", ErrInvalidInput)
	}

	var result *Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, id); err != nil {
			return err
		}
		if err := tx.UpdateIncome(ctx, id, decimal.NewNullDecimal(income), s.now().UTC()); err != nil {
			return err
		}
		updated, err := tx.GetHousehold(ctx, id)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(id)
	return result, nil
}

// ConfirmProfile marks the profile as reviewed without changing it.
func (s *Service) ConfirmProfile(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, id); err != nil {
			return err
		}
		return tx.TouchProfile(ctx, id, s.now().UTC())
	})
	if err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, id); err != nil {
			return err
		}
		return tx.SetActive(ctx, id, active)
	})
	if err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

func (s *Service) AddMember(ctx context.Context, householdID, categoryID, name string) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	person := Person{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
		CategoryID:  categoryID,
		Name:        name,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, householdID); err != nil {
			return err
		}
		if _, err := tx.GetCategory(ctx, categoryID); err != nil {
			return err
		}
		if err := tx.CreatePerson(ctx, &person); err != nil {
			return err
		}
		return tx.TouchProfile(ctx, householdID, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *Service) RemoveMember(ctx context.Context, householdID, personID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		person, err := tx.GetPerson(ctx, personID)
		if err != nil {
			return err
		}
		if person.HouseholdID != householdID {
			return ErrMemberNotFound
		}
		if err := tx.DeletePerson(ctx, personID); err != nil {
			return err
		}
		return tx.TouchProfile(ctx, householdID, s.now().UTC())
	})
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*PeopleCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Weight.IsNegative() || input.BaseNeed.IsNegative() {
		return nil, fmt.Errorf("%w: weight and base need must not be negative", ErrInvalidInput)
	}

	category := PeopleCategory{
		ID:       uuid.NewString(),
		Name:     name,
		BaseNeed: input.BaseNeed,
		Weight:   input.Weight,
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]PeopleCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateRoom(ctx context.Context, input CreateRoomInput) (*Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !input.Area.IsPositive() {
		return nil, fmt.Errorf("%w: area must be positive", ErrInvalidInput)
	}

	room := Room{
		ID:   uuid.NewString(),
		Name: name,
		Area: input.Area,
	}
	if err := s.repo.CreateRoom(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]RoomWithTenants, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[string][]string, len(rooms))
	for _, tenant := range tenants {
		byRoom[tenant.RoomID] = append(byRoom[tenant.RoomID], tenant.HouseholdID)
	}

	result := make([]RoomWithTenants, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, RoomWithTenants{Room: room, TenantIDs: byRoom[room.ID]})
	}
	return result, nil
}

func (s *Service) AssignTenant(ctx context.Context, roomID, householdID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetRoom(ctx, roomID); err != nil {
			return err
		}
		if _, err := tx.GetHousehold(ctx, householdID); err != nil {
			return err
		}
		if err := tx.AddTenant(ctx, RoomTenant{RoomID: roomID, HouseholdID: householdID}); err != nil {
			return err
		}
		return tx.TouchProfile(ctx, householdID, s.now().UTC())
	})
}

func (s *Service) UnassignTenant(ctx context.Context, roomID, householdID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		removed, err := tx.RemoveTenant(ctx, RoomTenant{RoomID: roomID, HouseholdID: householdID})
		if err != nil {
			return err
		}
		if !removed {
			return ErrTenantNotFound
		}
		return tx.TouchProfile(ctx, householdID, s.now().UTC())
	})
}
