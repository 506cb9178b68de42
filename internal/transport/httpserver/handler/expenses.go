package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	changelogdomain "housing-coop-go/internal/domain/changelog"
	expensesdomain "housing-coop-go/internal/domain/expenses"
)

type expenseRequest struct {
	Name         string          `json:"name"`
	YearlyAmount decimal.Decimal `json:"yearly_amount"`
	Type         string          `json:"type"`
}

type expenseResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	YearlyAmount decimal.Decimal `json:"yearly_amount"`
	Type         string          `json:"type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type expenseTotalsResponse struct {
	Rent      decimal.Decimal `json:"rent"`
	Ancillary decimal.Decimal `json:"ancillary"`
	Yearly    decimal.Decimal `json:"yearly"`
	Monthly   decimal.Decimal `json:"monthly"`
}

type changeLogResponse struct {
	ID             string           `json:"id"`
	EntityType     string           `json:"entity_type"`
	EntityID       string           `json:"entity_id"`
	ChangeType     string           `json:"change_type"`
	Details        string           `json:"details"`
	PreviousAmount *decimal.Decimal `json:"previous_amount"`
	NewAmount      *decimal.Decimal `json:"new_amount"`
	ActorID        *string          `json:"actor_id"`
	CreatedAt      time.Time        `json:"created_at"`
}

func toExpenseResponse(expense expensesdomain.Expense) expenseResponse {
	return expenseResponse{
		ID:           expense.ID,
		Name:         expense.Name,
		YearlyAmount: expense.YearlyAmount,
		Type:         expense.Type,
		CreatedAt:    expense.CreatedAt,
		UpdatedAt:    expense.UpdatedAt,
	}
}

func nullAmount(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	amount := value.Decimal
	return &amount
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := expensesdomain.ListFilter{Type: strings.TrimSpace(r.URL.Query().Get("type"))}

	items, err := h.Expenses.ListExpenses(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "expenses.list", err, "type", filter.Type)
		return
	}

	response := make([]expenseResponse, 0, len(items))
	for _, expense := range items {
		response = append(response, toExpenseResponse(expense))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ExpenseTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Expenses.Totals(r.Context())
	if err != nil {
		h.writeServiceError(w, "expenses.totals", err)
		return
	}
	writeJSON(w, http.StatusOK, expenseTotalsResponse{
		Rent:      totals.Rent,
		Ancillary: totals.Ancillary,
		Yearly:    totals.Yearly,
		Monthly:   totals.Monthly,
	})
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	expense, err := h.Expenses.CreateExpense(r.Context(), expensesdomain.CreateExpenseInput{
		Name:         req.Name,
		YearlyAmount: req.YearlyAmount,
		Type:         req.Type,
		ActorID:      actor.ID,
	})
	if err != nil {
		h.writeServiceError(w, "expenses.create", err, "actor_id", actor.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*expense))
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	expenseID := strings.TrimSpace(chi.URLParam(r, "id"))
	expense, err := h.Expenses.UpdateExpense(r.Context(), expensesdomain.UpdateExpenseInput{
		ID:           expenseID,
		Name:         req.Name,
		YearlyAmount: req.YearlyAmount,
		Type:         req.Type,
		ActorID:      actor.ID,
	})
	if err != nil {
		h.writeServiceError(w, "expenses.update", err, "expense_id", expenseID, "actor_id", actor.ID)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	expenseID := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := h.Expenses.DeleteExpense(r.Context(), expenseID, actor.ID); err != nil {
		h.writeServiceError(w, "expenses.delete", err, "expense_id", expenseID, "actor_id", actor.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListChangeLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	filter := changelogdomain.ListFilter{
		EntityType: strings.TrimSpace(query.Get("entity_type")),
		EntityID:   strings.TrimSpace(query.Get("entity_id")),
		Limit:      limit,
	}
	entries, err := h.ChangeLog.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "changelog.list", err)
		return
	}

	response := make([]changeLogResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, changeLogResponse{
			ID:             entry.ID,
			EntityType:     entry.EntityType,
			EntityID:       entry.EntityID,
			ChangeType:     entry.ChangeType,
			Details:        entry.Details,
			PreviousAmount: nullAmount(entry.PreviousAmount),
			NewAmount:      nullAmount(entry.NewAmount),
			ActorID:        entry.ActorID,
			CreatedAt:      entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
