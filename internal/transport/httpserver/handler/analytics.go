package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	analyticsdomain "housing-coop-go/internal/domain/analytics"
)

type balancePointResponse struct {
	Period  string          `json:"period"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

type fundSeriesResponse struct {
	FundID   string                 `json:"fund_id"`
	FundName string                 `json:"fund_name"`
	Points   []balancePointResponse `json:"points"`
}

type rentPointResponse struct {
	Date    string          `json:"date"`
	Monthly decimal.Decimal `json:"monthly"`
}

type rentSeriesResponse struct {
	EntityType string              `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	Name       string              `json:"name"`
	Points     []rentPointResponse `json:"points"`
}

type rentDevelopmentResponse struct {
	Series       []rentSeriesResponse `json:"series"`
	CurrentTotal decimal.Decimal      `json:"current_total"`
}

type depositPeriodResponse struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

type compareDepositsResponse struct {
	PeriodA depositPeriodResponse `json:"period_a"`
	PeriodB depositPeriodResponse `json:"period_b"`
	Delta   struct {
		Amount  decimal.Decimal `json:"amount"`
		Percent decimal.Decimal `json:"percent"`
	} `json:"delta"`
}

func (h *Handlers) FundBalances(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to")
		return
	}

	var fundIDs []string
	for _, id := range query["fund_id"] {
		if id = strings.TrimSpace(id); id != "" {
			fundIDs = append(fundIDs, id)
		}
	}

	series, err := h.Analytics.FundBalances(r.Context(), analyticsdomain.BalanceFilter{
		From:    from,
		To:      to,
		GroupBy: query.Get("group_by"),
		FundIDs: fundIDs,
	})
	if err != nil {
		h.writeServiceError(w, "analytics.fund_balances", err)
		return
	}

	response := make([]fundSeriesResponse, 0, len(series))
	for _, fund := range series {
		points := make([]balancePointResponse, 0, len(fund.Points))
		for _, point := range fund.Points {
			points = append(points, balancePointResponse{
				Period:  formatDate(point.Period),
				Amount:  point.Amount,
				Balance: point.Balance,
			})
		}
		response = append(response, fundSeriesResponse{FundID: fund.FundID, FundName: fund.FundName, Points: points})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RentDevelopment(w http.ResponseWriter, r *http.Request) {
	development, err := h.Analytics.RentDevelopment(r.Context())
	if err != nil {
		h.writeServiceError(w, "analytics.rent_development", err)
		return
	}

	response := rentDevelopmentResponse{
		Series:       make([]rentSeriesResponse, 0, len(development.Series)),
		CurrentTotal: development.CurrentTotal,
	}
	for _, series := range development.Series {
		points := make([]rentPointResponse, 0, len(series.Points))
		for _, point := range series.Points {
			points = append(points, rentPointResponse{Date: formatDate(point.Date), Monthly: point.Monthly})
		}
		response.Series = append(response.Series, rentSeriesResponse{
			EntityType: series.EntityType,
			EntityID:   series.EntityID,
			Name:       series.Name,
			Points:     points,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CompareDeposits(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter analyticsdomain.DepositFilter
	fields := []struct {
		name  string
		value *time.Time
	}{
		{"from_a", &filter.FromA},
		{"to_a", &filter.ToA},
		{"from_b", &filter.FromB},
		{"to_b", &filter.ToB},
	}
	for _, field := range fields {
		parsed, err := parseDateRequired(query.Get(field.name))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid "+field.name)
			return
		}
		*field.value = parsed
	}

	result, err := h.Analytics.CompareDeposits(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "analytics.compare_deposits", err)
		return
	}

	var response compareDepositsResponse
	response.PeriodA = depositPeriodResponse{From: formatDate(filter.FromA), To: formatDate(filter.ToA), Total: result.PeriodA.Total, Count: result.PeriodA.Count}
	response.PeriodB = depositPeriodResponse{From: formatDate(filter.FromB), To: formatDate(filter.ToB), Total: result.PeriodB.Total, Count: result.PeriodB.Count}
	response.Delta.Amount = result.Delta.Amount
	response.Delta.Percent = result.Delta.Percent
	writeJSON(w, http.StatusOK, response)
}
