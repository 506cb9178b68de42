//go:build integration

package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"housing-coop-go/internal/db/dbtest"
	analyticsdomain "housing-coop-go/internal/domain/analytics"
	expensesdomain "housing-coop-go/internal/domain/expenses"
	householddomain "housing-coop-go/internal/domain/household"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
	analyticsrepo "housing-coop-go/internal/repository/postgres/analytics"
	expensesrepo "housing-coop-go/internal/repository/postgres/expenses"
	householdrepo "housing-coop-go/internal/repository/postgres/household"
	ledgerrepo "housing-coop-go/internal/repository/postgres/ledger"
)

func TestAnalyticsQueries(t *testing.T) {
	dbConn := dbtest.Open(t)
	ctx := context.Background()

	households := householddomain.NewService(householdrepo.NewPostgres(dbConn))
	admin, err := households.CreateHousehold(ctx, householddomain.CreateHouseholdInput{Name: "Nord", Password: "secret", Role: householddomain.RoleAdmin})
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	ledger := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn), "Einzahlungsfonds")
	deposit, err := ledger.EnsureDepositFund(ctx)
	if err != nil {
		t.Fatalf("ensure deposit fund: %v", err)
	}

	jan := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	for _, payment := range []struct {
		date    time.Time
		amount  int64
		confirm bool
	}{
		{jan, 300, true},
		{feb, 250, true},
		{feb, 999, false},
	} {
		tx, err := ledger.RecordTransaction(ctx, ledgerdomain.RecordTransactionInput{
			FundID:      deposit.ID,
			HouseholdID: admin.ID,
			Amount:      decimal.NewFromInt(payment.amount),
			Date:        payment.date,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if payment.confirm {
			if _, err := ledger.ConfirmTransaction(ctx, tx.ID); err != nil {
				t.Fatalf("confirm: %v", err)
			}
		}
	}

	expenses := expensesdomain.NewService(expensesrepo.NewPostgres(dbConn))
	if _, err := expenses.CreateExpense(ctx, expensesdomain.CreateExpenseInput{Name: "Miete", YearlyAmount: decimal.NewFromInt(12000), Type: expensesdomain.TypeRent, ActorID: admin.ID}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	svc := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), "Einzahlungsfonds")

	series, err := svc.FundBalances(ctx, analyticsdomain.BalanceFilter{
		From:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		GroupBy: analyticsdomain.GroupByMonth,
		FundIDs: []string{deposit.ID},
	})
	if err != nil {
		t.Fatalf("fund balances: %v", err)
	}
	if len(series) != 1 || len(series[0].Points) != 1 {
		t.Fatalf("expected one fund with one point, got %+v", series)
	}
	if !series[0].Points[0].Balance.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("expected opening 300 plus 250, got %s", series[0].Points[0].Balance)
	}

	development, err := svc.RentDevelopment(ctx)
	if err != nil {
		t.Fatalf("rent development: %v", err)
	}
	if len(development.Series) != 1 || development.Series[0].Name != "Miete" {
		t.Fatalf("expected one rent series, got %+v", development.Series)
	}
	if !development.CurrentTotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected monthly total 1000, got %s", development.CurrentTotal)
	}

	compare, err := svc.CompareDeposits(ctx, analyticsdomain.DepositFilter{
		FromA: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ToA:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		FromB: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ToB:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compare deposits: %v", err)
	}
	if compare.PeriodA.Count != 1 || !compare.Delta.Amount.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("unexpected comparison: %+v", compare)
	}
}
