package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	scheduledomain "housing-coop-go/internal/domain/schedule"
)

type missingPaymentResponse struct {
	Month    string          `json:"month"`
	Required decimal.Decimal `json:"required"`
	Paid     decimal.Decimal `json:"paid"`
	Deficit  decimal.Decimal `json:"deficit"`
}

type arrearsResponse struct {
	HouseholdID   string                   `json:"household_id"`
	HouseholdName string                   `json:"household_name"`
	Months        []missingPaymentResponse `json:"months"`
}

type scheduleResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

type obligationResponse struct {
	HouseholdID string          `json:"household_id"`
	At          string          `json:"at"`
	Cash        decimal.Decimal `json:"cash"`
	Giro        decimal.Decimal `json:"giro"`
	Total       decimal.Decimal `json:"total"`
}

func toScheduleResponse(record scheduledomain.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:        record.ID,
		Kind:      record.Kind,
		Amount:    record.Amount,
		StartDate: formatDate(record.StartDate),
		EndDate:   formatDate(record.EndDate),
	}
}

func (h *Handlers) MissingPayments(w http.ResponseWriter, r *http.Request) {
	result, err := h.Schedules.CheckMissingPayments(r.Context())
	if err != nil {
		h.writeServiceError(w, "payments.missing", err)
		return
	}

	response := make([]arrearsResponse, 0, len(result))
	for _, arrears := range result {
		months := make([]missingPaymentResponse, 0, len(arrears.Months))
		for _, month := range arrears.Months {
			months = append(months, missingPaymentResponse{
				Month:    formatDate(month.Month),
				Required: month.Required,
				Paid:     month.Paid,
				Deficit:  month.Deficit,
			})
		}
		response = append(response, arrearsResponse{
			HouseholdID:   arrears.HouseholdID,
			HouseholdName: arrears.HouseholdName,
			Months:        months,
		})
	}
	sort.Slice(response, func(i, j int) bool { return response[i].HouseholdName < response[j].HouseholdName })
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CurrentObligation(w http.ResponseWriter, r *http.Request) {
	householdID := strings.TrimSpace(chi.URLParam(r, "household_id"))
	at, err := parseDateOptional(r.URL.Query().Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid at date")
		return
	}

	obligation, err := h.Schedules.CurrentObligation(r.Context(), householdID, at)
	if err != nil {
		h.writeServiceError(w, "payments.obligation", err, "household_id", householdID)
		return
	}
	writeJSON(w, http.StatusOK, obligationResponse{
		HouseholdID: obligation.HouseholdID,
		At:          formatDate(obligation.At),
		Cash:        obligation.Cash,
		Giro:        obligation.Giro,
		Total:       obligation.Total(),
	})
}

func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	householdID := strings.TrimSpace(chi.URLParam(r, "household_id"))

	records, err := h.Schedules.ListSchedules(r.Context(), householdID)
	if err != nil {
		h.writeServiceError(w, "payments.schedules", err, "household_id", householdID)
		return
	}

	response := make([]scheduleResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toScheduleResponse(record))
	}
	writeJSON(w, http.StatusOK, response)
}
