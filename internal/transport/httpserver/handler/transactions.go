package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
)

type recordTransactionRequest struct {
	FundID      string          `json:"fund_id"`
	HouseholdID string          `json:"household_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Comment     string          `json:"comment"`
}

type transferRequest struct {
	FromFundID string          `json:"from_fund_id"`
	ToFundID   string          `json:"to_fund_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Comment    string          `json:"comment"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	FundID      string          `json:"fund_id"`
	HouseholdID string          `json:"household_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Comment     *string         `json:"comment"`
	Confirmed   bool            `json:"confirmed"`
	TransferID  *string         `json:"transfer_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

type pendingGroupResponse struct {
	TransferID   *string               `json:"transfer_id"`
	Transactions []transactionResponse `json:"transactions"`
}

type transferResponse struct {
	TransferID string `json:"transfer_id"`
}

func toTransactionResponse(transaction ledgerdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          transaction.ID,
		FundID:      transaction.FundID,
		HouseholdID: transaction.HouseholdID,
		Amount:      transaction.Amount,
		Date:        formatDate(transaction.Date),
		Comment:     transaction.Comment,
		Confirmed:   transaction.Confirmed,
		TransferID:  transaction.TransferID,
		CreatedAt:   transaction.CreatedAt,
	}
}

func toTransactionResponses(transactions []ledgerdomain.Transaction) []transactionResponse {
	response := make([]transactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		response = append(response, toTransactionResponse(transaction))
	}
	return response
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pending, err := parseBoolParam(query.Get("pending"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid pending flag")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	transactions, err := h.Ledger.ListTransactions(r.Context(), ledgerdomain.TransactionFilter{
		FundID:      strings.TrimSpace(query.Get("fund_id")),
		HouseholdID: strings.TrimSpace(query.Get("household_id")),
		PendingOnly: pending,
		Limit:       limit,
	})
	if err != nil {
		h.writeServiceError(w, "transactions.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

func (h *Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Ledger.ListPending(r.Context())
	if err != nil {
		h.writeServiceError(w, "transactions.pending", err)
		return
	}

	response := make([]pendingGroupResponse, 0, len(groups))
	for _, group := range groups {
		item := pendingGroupResponse{Transactions: toTransactionResponses(group.Transactions)}
		if group.TransferID != "" {
			transferID := group.TransferID
			item.TransferID = &transferID
		}
		response = append(response, item)
	}
	writeJSON(w, http.StatusOK, response)
}

// RecordTransaction books a pending entry. Households book for themselves; admins may book for anyone.
func (h *Handlers) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	householdID := strings.TrimSpace(req.HouseholdID)
	if householdID == "" {
		householdID = actor.ID
	}
	if _, ok := requireSelfOrAdmin(w, r, householdID); !ok {
		return
	}

	date, err := parseDateOptional(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	transaction, err := h.Ledger.RecordTransaction(r.Context(), ledgerdomain.RecordTransactionInput{
		FundID:      req.FundID,
		HouseholdID: householdID,
		Amount:      req.Amount,
		Date:        date,
		Comment:     req.Comment,
	})
	if err != nil {
		h.writeServiceError(w, "transactions.record", err, "fund_id", req.FundID, "household_id", householdID)
		return
	}
	h.observeLedger("record")
	writeJSON(w, http.StatusCreated, toTransactionResponse(*transaction))
}

func (h *Handlers) ConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	confirmed, err := h.Ledger.ConfirmTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "transactions.confirm", err, "transaction_id", id)
		return
	}
	h.observeLedger("confirm")
	writeJSON(w, http.StatusOK, toTransactionResponses(confirmed))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Ledger.DeleteTransaction(r.Context(), id); err != nil {
		h.writeServiceError(w, "transactions.delete", err, "transaction_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) TransferFunds(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	date, err := parseDateOptional(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	transferID, err := h.Ledger.TransferFunds(r.Context(), ledgerdomain.TransferInput{
		FromFundID:  req.FromFundID,
		ToFundID:    req.ToFundID,
		Amount:      req.Amount,
		HouseholdID: actor.ID,
		Date:        date,
		Comment:     req.Comment,
	})
	if err != nil {
		h.writeServiceError(w, "transactions.transfer", err, "from", req.FromFundID, "to", req.ToFundID)
		return
	}
	h.observeLedger("transfer")
	writeJSON(w, http.StatusCreated, transferResponse{TransferID: transferID})
}
