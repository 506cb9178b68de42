package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	rentdomain "housing-coop-go/internal/domain/rent"
)

type rentMethodResponse struct {
	Amount *decimal.Decimal `json:"amount"`
	Error  *string          `json:"error,omitempty"`
}

type rentSharesResponse struct {
	HouseholdID       string             `json:"household_id"`
	HouseholdName     string             `json:"household_name"`
	MonthlyTotalRent  decimal.Decimal    `json:"monthly_total_rent"`
	ByArea            rentMethodResponse `json:"by_area"`
	ByHeadCount       rentMethodResponse `json:"by_head_count"`
	ByAvailableIncome rentMethodResponse `json:"by_available_income"`
}

func rentMethod(amount decimal.Decimal, err error) rentMethodResponse {
	if err != nil {
		message := err.Error()
		return rentMethodResponse{Error: &message}
	}
	rounded := amount.Round(2)
	return rentMethodResponse{Amount: &rounded}
}

func toRentSharesResponse(shares rentdomain.Shares) rentSharesResponse {
	return rentSharesResponse{
		HouseholdID:       shares.HouseholdID,
		HouseholdName:     shares.HouseholdName,
		MonthlyTotalRent:  shares.MonthlyTotalRent.Round(2),
		ByArea:            rentMethod(shares.ByArea, shares.AreaErr),
		ByHeadCount:       rentMethod(shares.ByHeadCount, shares.HeadCountErr),
		ByAvailableIncome: rentMethod(shares.ByAvailableIncome, shares.IncomeErr),
	}
}

func (h *Handlers) GetRentShares(w http.ResponseWriter, r *http.Request) {
	householdID := strings.TrimSpace(chi.URLParam(r, "household_id"))

	shares, err := h.Rent.CalculateRentShares(r.Context(), householdID)
	if err != nil {
		h.writeServiceError(w, "rent.shares", err, "household_id", householdID)
		return
	}
	writeJSON(w, http.StatusOK, toRentSharesResponse(*shares))
}

func (h *Handlers) ListRentShares(w http.ResponseWriter, r *http.Request) {
	all, err := h.Rent.CalculateAll(r.Context())
	if err != nil {
		h.writeServiceError(w, "rent.list", err)
		return
	}

	response := make([]rentSharesResponse, 0, len(all))
	for _, shares := range all {
		response = append(response, toRentSharesResponse(shares))
	}
	writeJSON(w, http.StatusOK, response)
}
