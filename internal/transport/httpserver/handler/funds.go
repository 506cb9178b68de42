package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
)

type fundRequest struct {
	Name         string          `json:"name"`
	YearlyTarget decimal.Decimal `json:"yearly_target"`
}

type deleteFundRequest struct {
	TransferToFundID string `json:"transfer_to_fund_id"`
}

type fundResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	YearlyTarget   decimal.Decimal `json:"yearly_target"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Deposit        bool            `json:"deposit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type deleteFundResponse struct {
	Closing *transactionResponse `json:"closing"`
	Credit  *transactionResponse `json:"credit"`
}

type distributionShareResponse struct {
	FundID     string          `json:"fund_id"`
	FundName   string          `json:"fund_name"`
	TransferID string          `json:"transfer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
}

type distributionResponse struct {
	Distributed decimal.Decimal             `json:"distributed"`
	Residue     decimal.Decimal             `json:"residue"`
	Shares      []distributionShareResponse `json:"shares"`
}

type integrityIssueResponse struct {
	Kind       string `json:"kind"`
	FundID     string `json:"fund_id,omitempty"`
	TransferID string `json:"transfer_id,omitempty"`
	Detail     string `json:"detail"`
}

type integrityResponse struct {
	OK               bool                     `json:"ok"`
	FundsChecked     int                      `json:"funds_checked"`
	TransfersChecked int                      `json:"transfers_checked"`
	Issues           []integrityIssueResponse `json:"issues"`
}

func (h *Handlers) toFundResponse(fund ledgerdomain.Fund) fundResponse {
	return fundResponse{
		ID:             fund.ID,
		Name:           fund.Name,
		YearlyTarget:   fund.YearlyTarget,
		CurrentBalance: fund.CurrentBalance,
		Deposit:        fund.Name == h.Ledger.DepositFundName(),
		CreatedAt:      fund.CreatedAt,
		UpdatedAt:      fund.UpdatedAt,
	}
}

func (h *Handlers) ListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.Ledger.ListFunds(r.Context())
	if err != nil {
		h.writeServiceError(w, "funds.list", err)
		return
	}

	response := make([]fundResponse, 0, len(funds))
	for _, fund := range funds {
		response = append(response, h.toFundResponse(fund))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateFund(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req fundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	fund, err := h.Ledger.CreateFund(r.Context(), ledgerdomain.CreateFundInput{
		Name:         req.Name,
		YearlyTarget: req.YearlyTarget,
		ActorID:      actor.ID,
	})
	if err != nil {
		h.writeServiceError(w, "funds.create", err, "name", req.Name)
		return
	}
	writeJSON(w, http.StatusCreated, h.toFundResponse(*fund))
}

func (h *Handlers) UpdateFund(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	fundID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req fundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	fund, err := h.Ledger.UpdateFund(r.Context(), ledgerdomain.UpdateFundInput{
		ID:           fundID,
		Name:         req.Name,
		YearlyTarget: req.YearlyTarget,
		ActorID:      actor.ID,
	})
	if err != nil {
		h.writeServiceError(w, "funds.update", err, "fund_id", fundID)
		return
	}
	writeJSON(w, http.StatusOK, h.toFundResponse(*fund))
}

func (h *Handlers) DeleteFund(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	fundID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req deleteFundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.TransferToFundID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "transfer_to_fund_id is required")
		return
	}

	result, err := h.Ledger.DeleteFund(r.Context(), fundID, req.TransferToFundID, actor.ID)
	if err != nil {
		h.writeServiceError(w, "funds.delete", err, "fund_id", fundID, "transfer_to", req.TransferToFundID)
		return
	}

	h.observeLedger("delete_fund")
	response := deleteFundResponse{}
	if result.Closing != nil {
		closing := toTransactionResponse(*result.Closing)
		response.Closing = &closing
	}
	if result.Credit != nil {
		credit := toTransactionResponse(*result.Credit)
		response.Credit = &credit
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) DistributeDepositFund(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.Ledger.DistributeDepositFund(r.Context(), actor.ID)
	if err != nil {
		h.writeServiceError(w, "funds.distribute", err, "actor_id", actor.ID)
		return
	}

	h.observeLedger("distribute")
	shares := make([]distributionShareResponse, 0, len(result.Shares))
	for _, share := range result.Shares {
		shares = append(shares, distributionShareResponse{
			FundID:     share.FundID,
			FundName:   share.FundName,
			TransferID: share.TransferID,
			Amount:     share.Amount,
			Balance:    share.Balance,
		})
	}
	writeJSON(w, http.StatusOK, distributionResponse{
		Distributed: result.Distributed,
		Residue:     result.Residue,
		Shares:      shares,
	})
}

func (h *Handlers) VerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.Ledger.VerifyIntegrity(r.Context())
	if err != nil {
		h.writeServiceError(w, "ledger.verify", err)
		return
	}

	issues := make([]integrityIssueResponse, 0, len(report.Issues))
	for _, issue := range report.Issues {
		issues = append(issues, integrityIssueResponse{
			Kind:       issue.Kind,
			FundID:     issue.FundID,
			TransferID: issue.TransferID,
			Detail:     issue.Detail,
		})
	}
	if !report.OK() {
		h.log.Warn("ledger.verify: integrity issues found", "count", len(issues))
	}
	writeJSON(w, http.StatusOK, integrityResponse{
		OK:               report.OK(),
		FundsChecked:     report.FundsChecked,
		TransfersChecked: report.TransfersChecked,
		Issues:           issues,
	})
}
