package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	analyticsdomain "housing-coop-go/internal/domain/analytics"
	"housing-coop-go/pkg/logger"
)

type fakeAnalyticsRepo struct {
	flows    []analyticsdomain.FundFlow
	changes  []analyticsdomain.RentChange
	deposits analyticsdomain.DepositSummary
}

func (r *fakeAnalyticsRepo) FundOpenings(ctx context.Context, before time.Time, fundIDs []string) ([]analyticsdomain.FundOpening, error) {
	return []analyticsdomain.FundOpening{{FundID: "f-1", FundName: "Einzahlungsfonds", Balance: decimal.NewFromInt(100)}}, nil
}

func (r *fakeAnalyticsRepo) FundFlows(ctx context.Context, filter analyticsdomain.BalanceFilter) ([]analyticsdomain.FundFlow, error) {
	return r.flows, nil
}

func (r *fakeAnalyticsRepo) RentChanges(ctx context.Context) ([]analyticsdomain.RentChange, error) {
	return r.changes, nil
}

func (r *fakeAnalyticsRepo) DepositSummary(ctx context.Context, fundName string, from, to time.Time) (analyticsdomain.DepositSummary, error) {
	return r.deposits, nil
}

func newAnalyticsRouter(repo *fakeAnalyticsRepo) http.Handler {
	h := New(nil, nil, nil, nil, nil, nil, nil, analyticsdomain.NewService(repo, "Einzahlungsfonds"), logger.Discard())

	r := chi.NewRouter()
	r.Get("/analytics/funds", h.FundBalances)
	r.Get("/analytics/rent", h.RentDevelopment)
	r.Get("/analytics/deposits/compare", h.CompareDeposits)
	return r
}

func TestFundBalancesResponse(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		flows: []analyticsdomain.FundFlow{
			{Period: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), FundID: "f-1", FundName: "Einzahlungsfonds", Amount: decimal.NewFromInt(50)},
		},
	}
	router := newAnalyticsRouter(repo)

	rec := doRequest(t, router, http.MethodGet, "/analytics/funds?from=2026-01-01&to=2026-02-28&group_by=month", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var series []fundSeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &series); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(series) != 1 || len(series[0].Points) != 2 {
		t.Fatalf("expected one fund with two months, got %+v", series)
	}
	if series[0].Points[1].Period != "2026-02-01" || series[0].Points[1].Balance.String() != "150" {
		t.Fatalf("unexpected february point: %+v", series[0].Points[1])
	}
}

func TestAnalyticsErrors(t *testing.T) {
	router := newAnalyticsRouter(&fakeAnalyticsRepo{})

	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing_from", "/analytics/funds?to=2026-01-31", http.StatusBadRequest, "invalid_request"},
		{"bad_group_by", "/analytics/funds?from=2026-01-01&to=2026-01-31&group_by=year", http.StatusUnprocessableEntity, "invalid_group_by"},
		{"reversed_range", "/analytics/funds?from=2026-02-01&to=2026-01-01", http.StatusUnprocessableEntity, "invalid_range"},
		{"compare_missing_b", "/analytics/deposits/compare?from_a=2026-02-01&to_a=2026-02-28", http.StatusBadRequest, "invalid_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.path, "")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Code)
			}
		})
	}
}

func TestRentDevelopmentResponse(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		changes: []analyticsdomain.RentChange{
			{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), EntityType: "expense", EntityID: "e-1", Name: "Miete", Delta: decimal.NewFromInt(6000)},
		},
	}
	router := newAnalyticsRouter(repo)

	rec := doRequest(t, router, http.MethodGet, "/analytics/rent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body rentDevelopmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CurrentTotal.String() != "500" || len(body.Series) != 1 || body.Series[0].Points[0].Date != "2026-01-01" {
		t.Fatalf("unexpected development: %+v", body)
	}
}
