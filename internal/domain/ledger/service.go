package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"housing-coop-go/internal/domain/changelog"
)

type Service struct {
	repo            Repository
	depositFundName string
	now             func() time.Time
}

func NewService(repo Repository, depositFundName string) *Service {
	return &Service{
		repo:            repo,
		depositFundName: depositFundName,
		now:             time.Now,
	}
}

func (s *Service) DepositFundName() string {
	return s.depositFundName
}

// EnsureDepositFund creates the deposit fund with a zero target when it does not exist yet.
func (s *Service) EnsureDepositFund(ctx context.Context) (*Fund, error) {
	fund, err := s.repo.GetFundByName(ctx, s.depositFundName)
	if err == nil {
		return fund, nil
	}
	if !errors.Is(err, ErrFundNotFound) {
		return nil, err
	}

	fund = &Fund{
		ID:             uuid.NewString(),
		Name:           s.depositFundName,
		YearlyTarget:   decimal.Zero,
		CurrentBalance: decimal.Zero,
	}
	if err := s.repo.CreateFund(ctx, fund); err != nil {
		return nil, err
	}
	return fund, nil
}

func (s *Service) ListFunds(ctx context.Context) ([]Fund, error) {
	return s.repo.ListFunds(ctx)
}

func (s *Service) GetFund(ctx context.Context, id string) (*Fund, error) {
	return s.repo.GetFund(ctx, id)
}

func (s *Service) CreateFund(ctx context.Context, input CreateFundInput) (*Fund, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.YearlyTarget.IsNegative() {
		return nil, fmt.Errorf("%w: yearly target must not be negative", ErrInvalidAmount)
	}

	fund := Fund{
		ID:             uuid.NewString(),
		Name:           name,
		YearlyTarget:   input.YearlyTarget,
		CurrentBalance: decimal.Zero,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateFund(ctx, &fund); err != nil {
			return err
		}
		entry := changelog.NewEntry(changelog.EntityFund, fund.ID, changelog.ChangeAdd, "created fund "+fund.Name, input.ActorID).
			WithAmounts(nil, &fund.YearlyTarget)
		return tx.AppendChangeLog(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

func (s *Service) UpdateFund(ctx context.Context, input UpdateFundInput) (*Fund, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.YearlyTarget.IsNegative() {
		return nil, fmt.Errorf("%w: yearly target must not be negative", ErrInvalidAmount)
	}

	var result *Fund
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fund, err := tx.GetFund(ctx, input.ID)
		if err != nil {
			return err
		}
		if fund.Name == s.depositFundName && name != fund.Name {
			return ErrDepositFundProtected
		}

		if err := tx.UpdateFund(ctx, fund.ID, name, input.YearlyTarget); err != nil {
			return err
		}

		details := "updated fund " + name
		if name != fund.Name {
			details = fmt.Sprintf("renamed fund %s to %s", fund.Name, name)
		}
		entry := changelog.NewEntry(changelog.EntityFund, fund.ID, changelog.ChangeEdit, details, input.ActorID).
			WithAmounts(&fund.YearlyTarget, &input.YearlyTarget)
		if err := tx.AppendChangeLog(ctx, entry); err != nil {
			return err
		}

		fund.Name = name
		fund.YearlyTarget = input.YearlyTarget
		result = fund
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordTransaction stores a pending entry. The fund balance is untouched until confirmation.
func (s *Service) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*Transaction, error) {
	if input.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must not be zero", ErrInvalidAmount)
	}

	transaction := Transaction{
		ID:          uuid.NewString(),
		FundID:      input.FundID,
		HouseholdID: input.HouseholdID,
		Amount:      input.Amount,
		Date:        s.dateOrToday(input.Date),
		Comment:     optionalComment(input.Comment),
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetFund(ctx, input.FundID); err != nil {
			return err
		}
		if err := requireHousehold(ctx, tx, input.HouseholdID); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, &transaction)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ConfirmTransaction confirms the entry, or both legs when it belongs to a transfer, and applies the amounts
// to the fund balances. Confirming anything twice fails with ErrAlreadyConfirmed and changes nothing.
func (s *Service) ConfirmTransaction(ctx context.Context, id string) ([]Transaction, error) {
	var confirmed []Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := resolveGroup(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := validateTransfer(group); err != nil {
			return err
		}

		ids := make([]string, 0, len(group))
		for _, transaction := range group {
			if transaction.Confirmed {
				return ErrAlreadyConfirmed
			}
			ids = append(ids, transaction.ID)
		}

		changed, err := tx.MarkConfirmed(ctx, ids)
		if err != nil {
			return err
		}
		if changed != int64(len(ids)) {
			return ErrAlreadyConfirmed
		}

		for i := range group {
			if err := tx.IncrementBalance(ctx, group[i].FundID, group[i].Amount); err != nil {
				return err
			}
			group[i].Confirmed = true
		}
		confirmed = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// DeleteTransaction removes a pending entry together with the other leg of its transfer.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := resolveGroup(ctx, tx, id)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(group))
		for _, transaction := range group {
			if transaction.Confirmed {
				return ErrTransactionConfirmed
			}
			ids = append(ids, transaction.ID)
		}
		return tx.DeleteTransactions(ctx, ids)
	})
}

func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) ListPending(ctx context.Context) ([]PendingGroup, error) {
	pending, err := s.repo.ListTransactions(ctx, TransactionFilter{PendingOnly: true})
	if err != nil {
		return nil, err
	}
	return groupPending(pending), nil
}

// TransferFunds records both legs of a transfer as pending and returns the shared transfer id.
func (s *Service) TransferFunds(ctx context.Context, input TransferInput) (string, error) {
	if !input.Amount.IsPositive() {
		return "", fmt.Errorf("%w: transfer amount must be positive", ErrInvalidAmount)
	}
	if input.FromFundID == input.ToFundID {
		return "", ErrSameFund
	}

	transferID := uuid.NewString()
	date := s.dateOrToday(input.Date)
	comment := optionalComment(input.Comment)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetFund(ctx, input.FromFundID); err != nil {
			return err
		}
		if _, err := tx.GetFund(ctx, input.ToFundID); err != nil {
			return err
		}
		if err := requireHousehold(ctx, tx, input.HouseholdID); err != nil {
			return err
		}

		legs := []Transaction{
			{FundID: input.FromFundID, Amount: input.Amount.Neg()},
			{FundID: input.ToFundID, Amount: input.Amount},
		}
		for i := range legs {
			legs[i].ID = uuid.NewString()
			legs[i].HouseholdID = input.HouseholdID
			legs[i].Date = date
			legs[i].Comment = comment
			legs[i].TransferID = &transferID
			if err := tx.CreateTransaction(ctx, &legs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return transferID, nil
}

// DeleteFund closes the fund: a confirmed closing debit empties it, a pending credit of the same amount
// lands on the destination fund, and the fund is soft-deleted.
func (s *Service) DeleteFund(ctx context.Context, fundID, transferToID, householdID string) (*DeleteFundResult, error) {
	if fundID == transferToID {
		return nil, ErrSameFund
	}

	result := &DeleteFundResult{}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fund, err := tx.GetFund(ctx, fundID)
		if err != nil {
			return err
		}
		if fund.Name == s.depositFundName {
			return ErrDepositFundProtected
		}
		destination, err := tx.GetFund(ctx, transferToID)
		if err != nil {
			return err
		}
		if err := requireHousehold(ctx, tx, householdID); err != nil {
			return err
		}

		date := s.dateOrToday(time.Time{})
		balance := fund.CurrentBalance
		if !balance.IsZero() {
			closing := Transaction{
				ID:          uuid.NewString(),
				FundID:      fund.ID,
				HouseholdID: householdID,
				Amount:      balance.Neg(),
				Date:        date,
				Comment:     optionalComment("closing balance moved to " + destination.Name),
				Confirmed:   true,
			}
			if err := tx.CreateTransaction(ctx, &closing); err != nil {
				return err
			}
			if err := tx.IncrementBalance(ctx, fund.ID, closing.Amount); err != nil {
				return err
			}

			credit := Transaction{
				ID:          uuid.NewString(),
				FundID:      destination.ID,
				HouseholdID: householdID,
				Amount:      balance,
				Date:        date,
				Comment:     optionalComment("remaining balance of " + fund.Name),
			}
			if err := tx.CreateTransaction(ctx, &credit); err != nil {
				return err
			}
			result.Closing = &closing
			result.Credit = &credit
		}

		if err := tx.SoftDeleteFund(ctx, fund.ID); err != nil {
			return err
		}
		entry := changelog.NewEntry(changelog.EntityFund, fund.ID, changelog.ChangeDelete, "deleted fund "+fund.Name, householdID).
			WithAmounts(&fund.YearlyTarget, nil)
		return tx.AppendChangeLog(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DistributeDepositFund sweeps the deposit fund into every other fund in proportion to its yearly target.
// Each share is a confirmed transfer rounded to whole units; what rounding leaves behind stays in the deposit fund.
func (s *Service) DistributeDepositFund(ctx context.Context, actorID string) (*DistributionResult, error) {
	var result *DistributionResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requireHousehold(ctx, tx, actorID); err != nil {
			return err
		}

		deposit, err := tx.GetFundByName(ctx, s.depositFundName)
		if err != nil {
			return err
		}
		available := deposit.CurrentBalance
		if !available.IsPositive() {
			return ErrNothingToDistribute
		}

		funds, err := tx.ListFunds(ctx)
		if err != nil {
			return err
		}
		targets := make([]Fund, 0, len(funds))
		totalTarget := decimal.Zero
		for _, fund := range funds {
			if fund.ID == deposit.ID || !fund.YearlyTarget.IsPositive() {
				continue
			}
			targets = append(targets, fund)
			totalTarget = totalTarget.Add(fund.YearlyTarget)
		}
		if !totalTarget.IsPositive() {
			return ErrZeroTotalTarget
		}

		date := s.dateOrToday(time.Time{})
		comment := optionalComment("distribution of " + deposit.Name)
		distributed := decimal.Zero
		shares := make([]DistributionShare, 0, len(targets))

		for _, fund := range targets {
			share := available.Mul(fund.YearlyTarget).Div(totalTarget).Round(0)
			if remaining := available.Sub(distributed); share.GreaterThan(remaining) {
				share = remaining
			}
			if !share.IsPositive() {
				continue
			}

			transferID := uuid.NewString()
			legs := []Transaction{
				{FundID: deposit.ID, Amount: share.Neg()},
				{FundID: fund.ID, Amount: share},
			}
			for i := range legs {
				legs[i].ID = uuid.NewString()
				legs[i].HouseholdID = actorID
				legs[i].Date = date
				legs[i].Comment = comment
				legs[i].Confirmed = true
				legs[i].TransferID = &transferID
				if err := tx.CreateTransaction(ctx, &legs[i]); err != nil {
					return err
				}
				if err := tx.IncrementBalance(ctx, legs[i].FundID, legs[i].Amount); err != nil {
					return err
				}
			}

			distributed = distributed.Add(share)
			shares = append(shares, DistributionShare{
				FundID:     fund.ID,
				FundName:   fund.Name,
				TransferID: transferID,
				Amount:     share,
				Balance:    fund.CurrentBalance.Add(share),
			})
		}

		result = &DistributionResult{
			Distributed: distributed,
			Residue:     available.Sub(distributed),
			Shares:      shares,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyIntegrity checks cached balances against confirmed entries and the shape of every transfer.
func (s *Service) VerifyIntegrity(ctx context.Context) (*IntegrityReport, error) {
	funds, err := s.repo.ListFunds(ctx)
	if err != nil {
		return nil, err
	}
	sums, err := s.repo.ConfirmedSumsByFund(ctx)
	if err != nil {
		return nil, err
	}

	report := &IntegrityReport{FundsChecked: len(funds)}
	for _, fund := range funds {
		sum, ok := sums[fund.ID]
		if !ok {
			sum = decimal.Zero
		}
		if !fund.CurrentBalance.Equal(sum) {
			report.Issues = append(report.Issues, IntegrityIssue{
				Kind:   IssueBalanceMismatch,
				FundID: fund.ID,
				Detail: fmt.Sprintf("%s: balance %s, confirmed entries sum to %s", fund.Name, fund.CurrentBalance.StringFixed(2), sum.StringFixed(2)),
			})
		}
	}

	legs, err := s.repo.ListAllTransferLegs(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]Transaction)
	order := make([]string, 0)
	for _, leg := range legs {
		id := *leg.TransferID
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], leg)
	}

	report.TransfersChecked = len(order)
	for _, id := range order {
		if issue, ok := transferIssue(id, groups[id]); ok {
			report.Issues = append(report.Issues, issue)
		}
	}
	return report, nil
}

func transferIssue(transferID string, legs []Transaction) (IntegrityIssue, bool) {
	issue := IntegrityIssue{TransferID: transferID}
	switch {
	case len(legs) != 2:
		issue.Kind = IssueTransferSize
		issue.Detail = fmt.Sprintf("%d legs", len(legs))
	case !legs[0].Amount.Add(legs[1].Amount).IsZero():
		issue.Kind = IssueTransferSum
		issue.Detail = fmt.Sprintf("legs sum to %s", legs[0].Amount.Add(legs[1].Amount).StringFixed(2))
	case legs[0].FundID == legs[1].FundID:
		issue.Kind = IssueTransferSameFund
		issue.Detail = "both legs on fund " + legs[0].FundID
	case legs[0].Confirmed != legs[1].Confirmed:
		issue.Kind = IssueTransferPartial
		issue.Detail = "only one leg confirmed"
	default:
		return IntegrityIssue{}, false
	}
	return issue, true
}

func resolveGroup(ctx context.Context, repo Repository, id string) ([]Transaction, error) {
	transaction, err := repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction.TransferID == nil {
		return []Transaction{*transaction}, nil
	}
	return repo.ListTransferLegs(ctx, *transaction.TransferID)
}

func validateTransfer(group []Transaction) error {
	if len(group) == 0 || group[0].TransferID == nil {
		return nil
	}
	if len(group) != 2 {
		return ErrTransferIncomplete
	}
	if !group[0].Amount.Add(group[1].Amount).IsZero() || group[0].FundID == group[1].FundID {
		return ErrTransferUnbalanced
	}
	return nil
}

func groupPending(transactions []Transaction) []PendingGroup {
	groups := make([]PendingGroup, 0, len(transactions))
	index := make(map[string]int)
	for _, transaction := range transactions {
		if transaction.TransferID == nil {
			groups = append(groups, PendingGroup{Transactions: []Transaction{transaction}})
			continue
		}
		id := *transaction.TransferID
		if i, ok := index[id]; ok {
			groups[i].Transactions = append(groups[i].Transactions, transaction)
			continue
		}
		index[id] = len(groups)
		groups = append(groups, PendingGroup{TransferID: id, Transactions: []Transaction{transaction}})
	}
	return groups
}

func requireHousehold(ctx context.Context, repo Repository, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrHouseholdNotFound
	}
	exists, err := repo.HouseholdExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrHouseholdNotFound
	}
	return nil
}

func (s *Service) dateOrToday(date time.Time) time.Time {
	if date.IsZero() {
		date = s.now()
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func optionalComment(comment string) *string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil
	}
	return &comment
}
