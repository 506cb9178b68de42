package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	householddomain "housing-coop-go/internal/domain/household"
)

type createHouseholdRequest struct {
	Name     string           `json:"name"`
	Password string           `json:"password"`
	Role     string           `json:"role"`
	Income   *decimal.Decimal `json:"income"`
}

type updateIncomeRequest struct {
	Income decimal.Decimal `json:"income"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

type addMemberRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type createCategoryRequest struct {
	Name     string          `json:"name"`
	BaseNeed decimal.Decimal `json:"base_need"`
	Weight   decimal.Decimal `json:"weight"`
}

type createRoomRequest struct {
	Name string          `json:"name"`
	Area decimal.Decimal `json:"area"`
}

type householdResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Role            string           `json:"role"`
	Active          bool             `json:"active"`
	Income          *decimal.Decimal `json:"income"`
	LastFullPayment *string          `json:"last_full_payment"`
	LastUpdated     *time.Time       `json:"last_updated"`
	HeadCount       *decimal.Decimal `json:"head_count,omitempty"`
	AvailableIncome *decimal.Decimal `json:"available_income,omitempty"`
	Members         []memberResponse `json:"members,omitempty"`
	RoomIDs         []string         `json:"room_ids,omitempty"`
}

type memberResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Weight       decimal.Decimal `json:"weight"`
	BaseNeed     decimal.Decimal `json:"base_need"`
}

type categoryResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	BaseNeed decimal.Decimal `json:"base_need"`
	Weight   decimal.Decimal `json:"weight"`
}

type roomResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Area      decimal.Decimal `json:"area"`
	Communal  bool            `json:"communal"`
	TenantIDs []string        `json:"tenant_ids"`
}

func toHouseholdResponse(household householddomain.Household) householdResponse {
	response := householdResponse{
		ID:              household.ID,
		Name:            household.Name,
		Role:            household.Role,
		Active:          household.Active,
		LastFullPayment: formatOptionalDate(household.LastFullPayment),
		LastUpdated:     household.LastUpdated,
	}
	if household.Income.Valid {
		income := household.Income.Decimal
		response.Income = &income
	}
	return response
}

func toProfileResponse(profile householddomain.Profile) householdResponse {
	response := toHouseholdResponse(profile.Household)
	headCount, available := profile.HeadCount, profile.AvailableIncome
	response.HeadCount = &headCount
	response.AvailableIncome = &available
	response.RoomIDs = profile.RoomIDs
	response.Members = make([]memberResponse, 0, len(profile.Members))
	for _, member := range profile.Members {
		response.Members = append(response.Members, memberResponse{
			ID:           member.ID,
			Name:         member.Name,
			CategoryID:   member.CategoryID,
			CategoryName: member.CategoryName,
			Weight:       member.Weight,
			BaseNeed:     member.BaseNeed,
		})
	}
	return response
}

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := parseBoolParam(r.URL.Query().Get("active"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid active flag")
		return
	}

	profiles, err := h.Households.ListProfiles(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, "households.list", err)
		return
	}

	response := make([]householdResponse, 0, len(profiles))
	for _, profile := range profiles {
		response = append(response, toProfileResponse(profile))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Households.CreateHousehold(r.Context(), householddomain.CreateHouseholdInput{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Income:   req.Income,
	})
	if err != nil {
		h.writeServiceError(w, "households.create", err, "name", req.Name)
		return
	}
	writeJSON(w, http.StatusCreated, toHouseholdResponse(*created))
}

func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	profile, err := h.Households.GetProfile(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "households.get", err, "household_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*profile))
}

func (h *Handlers) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if _, ok := requireSelfOrAdmin(w, r, id); !ok {
		return
	}

	var req updateIncomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Households.UpdateIncome(r.Context(), id, req.Income)
	if err != nil {
		h.writeServiceError(w, "households.update_income", err, "household_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdResponse(*updated))
}

func (h *Handlers) ConfirmProfile(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if _, ok := requireSelfOrAdmin(w, r, id); !ok {
		return
	}

	if err := h.Households.ConfirmProfile(r.Context(), id); err != nil {
		h.writeServiceError(w, "households.confirm", err, "household_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetHouseholdActive(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Households.SetActive(r.Context(), id, req.Active); err != nil {
		h.writeServiceError(w, "households.set_active", err, "household_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if _, ok := requireSelfOrAdmin(w, r, id); !ok {
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	person, err := h.Households.AddMember(r.Context(), id, req.CategoryID, req.Name)
	if err != nil {
		h.writeServiceError(w, "households.add_member", err, "household_id", id)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{ID: person.ID, Name: person.Name, CategoryID: person.CategoryID})
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	personID := strings.TrimSpace(chi.URLParam(r, "person_id"))
	if _, ok := requireSelfOrAdmin(w, r, id); !ok {
		return
	}

	if err := h.Households.RemoveMember(r.Context(), id, personID); err != nil {
		h.writeServiceError(w, "households.remove_member", err, "household_id", id, "person_id", personID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Households.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, "categories.list", err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, categoryResponse{ID: category.ID, Name: category.Name, BaseNeed: category.BaseNeed, Weight: category.Weight})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	category, err := h.Households.CreateCategory(r.Context(), householddomain.CreateCategoryInput{
		Name:     req.Name,
		BaseNeed: req.BaseNeed,
		Weight:   req.Weight,
	})
	if err != nil {
		h.writeServiceError(w, "categories.create", err, "name", req.Name)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name, BaseNeed: category.BaseNeed, Weight: category.Weight})
}

func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Households.ListRooms(r.Context())
	if err != nil {
		h.writeServiceError(w, "rooms.list", err)
		return
	}

	response := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		tenants := room.TenantIDs
		if tenants == nil {
			tenants = []string{}
		}
		response = append(response, roomResponse{
			ID:        room.ID,
			Name:      room.Name,
			Area:      room.Area,
			Communal:  room.Communal(),
			TenantIDs: tenants,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	room, err := h.Households.CreateRoom(r.Context(), householddomain.CreateRoomInput{Name: req.Name, Area: req.Area})
	if err != nil {
		h.writeServiceError(w, "rooms.create", err, "name", req.Name)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse{ID: room.ID, Name: room.Name, Area: room.Area, Communal: true, TenantIDs: []string{}})
}

func (h *Handlers) AssignTenant(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(chi.URLParam(r, "id"))
	householdID := strings.TrimSpace(chi.URLParam(r, "household_id"))

	if err := h.Households.AssignTenant(r.Context(), roomID, householdID); err != nil {
		h.writeServiceError(w, "rooms.assign_tenant", err, "room_id", roomID, "household_id", householdID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnassignTenant(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(chi.URLParam(r, "id"))
	householdID := strings.TrimSpace(chi.URLParam(r, "household_id"))

	if err := h.Households.UnassignTenant(r.Context(), roomID, householdID); err != nil {
		h.writeServiceError(w, "rooms.unassign_tenant", err, "room_id", roomID, "household_id", householdID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
