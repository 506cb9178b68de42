package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	biddingdomain "housing-coop-go/internal/domain/bidding"
)

type startRoundRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type submitBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type roundResponse struct {
	ID                 string          `json:"id"`
	Status             string          `json:"status"`
	TotalCashNeeded    decimal.Decimal `json:"total_cash_needed"`
	TotalGiroNeeded    decimal.Decimal `json:"total_giro_needed"`
	TotalAmountNeeded  decimal.Decimal `json:"total_amount_needed"`
	TotalAmountPledged decimal.Decimal `json:"total_amount_pledged"`
	AmountShortfall    decimal.Decimal `json:"amount_shortfall"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	CreatedAt          time.Time       `json:"created_at"`
}

type bidResponse struct {
	ID          string          `json:"id"`
	HouseholdID string          `json:"household_id"`
	RoundID     string          `json:"round_id"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type missingBidderResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roundStatusResponse struct {
	Round            roundResponse           `json:"round"`
	Bids             []bidResponse           `json:"bids"`
	ActiveHouseholds int                     `json:"active_households"`
	Complete         bool                    `json:"complete"`
	MissingBids      []missingBidderResponse `json:"missing_bids"`
}

type submitBidResponse struct {
	Bid   bidResponse   `json:"bid"`
	Round roundResponse `json:"round"`
}

type allocationResponse struct {
	HouseholdID string          `json:"household_id"`
	Bid         decimal.Decimal `json:"bid"`
	Proportion  decimal.Decimal `json:"proportion"`
	Cash        decimal.Decimal `json:"cash"`
	Giro        decimal.Decimal `json:"giro"`
}

type acceptRoundResponse struct {
	Round               roundResponse        `json:"round"`
	EffectiveCashNeeded decimal.Decimal      `json:"effective_cash_needed"`
	Allocations         []allocationResponse `json:"allocations"`
}

type defaultBidResponse struct {
	RoundID   string          `json:"round_id"`
	Amount    decimal.Decimal `json:"amount"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

func toRoundResponse(round biddingdomain.Round) roundResponse {
	return roundResponse{
		ID:                 round.ID,
		Status:             round.Status,
		TotalCashNeeded:    round.TotalCashNeeded,
		TotalGiroNeeded:    round.TotalGiroNeeded,
		TotalAmountNeeded:  round.TotalAmountNeeded(),
		TotalAmountPledged: round.TotalAmountPledged,
		AmountShortfall:    round.AmountShortfall(),
		PeriodStart:        formatDate(round.PeriodStart),
		PeriodEnd:          formatDate(round.PeriodEnd),
		CreatedAt:          round.CreatedAt,
	}
}

func toBidResponse(bid biddingdomain.Bid) bidResponse {
	return bidResponse{
		ID:          bid.ID,
		HouseholdID: bid.HouseholdID,
		RoundID:     bid.RoundID,
		Amount:      bid.Amount,
		SubmittedAt: bid.SubmittedAt,
	}
}

func (h *Handlers) StartRound(w http.ResponseWriter, r *http.Request) {
	var req startRoundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	start, err := parseDateRequired(req.PeriodStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid period_start")
		return
	}
	end, err := parseDateRequired(req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid period_end")
		return
	}

	round, err := h.Bidding.StartRound(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, "rounds.start", err, "period_start", req.PeriodStart, "period_end", req.PeriodEnd)
		return
	}
	h.log.Info("rounds.start: round opened", "round_id", round.ID, "cash", round.TotalCashNeeded, "giro", round.TotalGiroNeeded)
	writeJSON(w, http.StatusCreated, toRoundResponse(*round))
}

func (h *Handlers) RoundStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Bidding.Status(r.Context())
	if err != nil {
		h.writeServiceError(w, "rounds.status", err)
		return
	}

	bids := make([]bidResponse, 0, len(status.Bids))
	for _, bid := range status.Bids {
		bids = append(bids, toBidResponse(bid))
	}
	missing := make([]missingBidderResponse, 0, len(status.MissingBids))
	for _, household := range status.MissingBids {
		missing = append(missing, missingBidderResponse{ID: household.ID, Name: household.Name})
	}
	writeJSON(w, http.StatusOK, roundStatusResponse{
		Round:            toRoundResponse(status.Round),
		Bids:             bids,
		ActiveHouseholds: status.ActiveHouseholds,
		Complete:         status.Complete,
		MissingBids:      missing,
	})
}

func (h *Handlers) SubmitBid(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submitBidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	bid, round, err := h.Bidding.SubmitBid(r.Context(), actor.ID, req.Amount)
	if err != nil {
		h.writeServiceError(w, "rounds.bid", err, "household_id", actor.ID)
		return
	}
	writeJSON(w, http.StatusCreated, submitBidResponse{Bid: toBidResponse(*bid), Round: toRoundResponse(*round)})
}

func (h *Handlers) DefaultBid(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	guidance, err := h.Bidding.DefaultBid(r.Context(), actor.ID)
	if err != nil {
		h.writeServiceError(w, "rounds.default_bid", err, "household_id", actor.ID)
		return
	}
	writeJSON(w, http.StatusOK, defaultBidResponse{RoundID: guidance.RoundID, Amount: guidance.Amount, Shortfall: guidance.Shortfall})
}

func (h *Handlers) AcceptRound(w http.ResponseWriter, r *http.Request) {
	result, err := h.Bidding.AcceptRound(r.Context())
	if err != nil {
		h.writeServiceError(w, "rounds.accept", err)
		return
	}

	allocations := make([]allocationResponse, 0, len(result.Allocations))
	for _, allocation := range result.Allocations {
		allocations = append(allocations, allocationResponse{
			HouseholdID: allocation.HouseholdID,
			Bid:         allocation.Bid,
			Proportion:  allocation.Proportion.Round(4),
			Cash:        allocation.Cash,
			Giro:        allocation.Giro,
		})
	}
	h.log.Info("rounds.accept: round accepted", "round_id", result.Round.ID, "households", len(allocations))
	writeJSON(w, http.StatusOK, acceptRoundResponse{
		Round:               toRoundResponse(result.Round),
		EffectiveCashNeeded: result.EffectiveCashNeeded,
		Allocations:         allocations,
	})
}

func (h *Handlers) DeclineRound(w http.ResponseWriter, r *http.Request) {
	next, err := h.Bidding.DeclineRound(r.Context())
	if err != nil {
		h.writeServiceError(w, "rounds.decline", err)
		return
	}
	h.log.Info("rounds.decline: round declined", "next_round_id", next.ID)
	writeJSON(w, http.StatusOK, toRoundResponse(*next))
}
