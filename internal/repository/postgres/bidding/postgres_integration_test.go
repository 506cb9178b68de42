//go:build integration

package bidding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"housing-coop-go/internal/db/dbtest"
	biddingdomain "housing-coop-go/internal/domain/bidding"
	biddingrepo "housing-coop-go/internal/repository/postgres/bidding"
)

func TestSingleOpenRound(t *testing.T) {
	dbConn := dbtest.Open(t)
	ctx := context.Background()
	repo := biddingrepo.NewPostgres(dbConn)

	newRound := func() *biddingdomain.Round {
		return &biddingdomain.Round{
			ID:                 uuid.NewString(),
			Status:             biddingdomain.StatusOpen,
			TotalCashNeeded:    decimal.NewFromInt(600),
			TotalGiroNeeded:    decimal.NewFromInt(400),
			TotalAmountPledged: decimal.Zero,
			PeriodStart:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:          time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}

	first := newRound()
	if err := repo.CreateRound(ctx, first); err != nil {
		t.Fatalf("create round: %v", err)
	}
	if err := repo.CreateRound(ctx, newRound()); !errors.Is(err, biddingdomain.ErrRoundAlreadyOpen) {
		t.Fatalf("expected ErrRoundAlreadyOpen, got %v", err)
	}

	if err := repo.SetStatus(ctx, first.ID, biddingdomain.StatusDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if err := repo.SetStatus(ctx, first.ID, biddingdomain.StatusAccepted); !errors.Is(err, biddingdomain.ErrRoundNotOpen) {
		t.Fatalf("expected ErrRoundNotOpen, got %v", err)
	}
	if _, err := repo.GetOpenRound(ctx); !errors.Is(err, biddingdomain.ErrNoOpenRound) {
		t.Fatalf("expected ErrNoOpenRound, got %v", err)
	}

	declined, err := repo.LatestDeclinedRound(ctx, first.PeriodStart, first.PeriodEnd)
	if err != nil || declined.ID != first.ID {
		t.Fatalf("expected latest declined round %s, got %+v (%v)", first.ID, declined, err)
	}

	if err := repo.CreateRound(ctx, newRound()); err != nil {
		t.Fatalf("expected a new round after decline, got %v", err)
	}
}
