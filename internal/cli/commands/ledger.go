package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"housing-coop-go/internal/app"
	"housing-coop-go/internal/cli/output"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Distribute the deposit fund, confirm and verify",
}

var ledgerDistributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Spread the deposit fund balance over the funds by yearly target",
	RunE: func(cmd *cobra.Command, args []string) error {
		if actorID == "" {
			return fmt.Errorf("--actor is required")
		}
		return withServices(runLedgerDistribute)
	},
}

var ledgerConfirmCmd = &cobra.Command{
	Use:   "confirm <transaction-id>",
	Short: "Confirm a pending transaction and its transfer partner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, services *app.Services) error {
			confirmed, err := services.Ledger.ConfirmTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(confirmed)
			}
			for _, transaction := range confirmed {
				output.Success("confirmed %s %s", transaction.ID, output.Money(transaction.Amount))
			}
			return nil
		})
	},
}

var ledgerPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending transactions grouped by transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, services *app.Services) error {
			groups, err := services.Ledger.ListPending(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(groups)
			}
			if len(groups) == 0 {
				output.Success("nothing to confirm")
				return nil
			}
			rows := make([][]string, 0)
			for _, group := range groups {
				for _, transaction := range group.Transactions {
					rows = append(rows, []string{
						output.StatusIcon("pending"),
						group.TransferID,
						transaction.ID,
						transaction.FundID,
						output.Money(transaction.Amount),
						transaction.Date.Format(dateLayout),
					})
				}
			}
			output.Table([]string{"", "TRANSFER", "TRANSACTION", "FUND", "AMOUNT", "DATE"}, rows)
			return nil
		})
	},
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check stored balances and transfer pairs against the transaction log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(runLedgerVerify)
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerDistributeCmd, ledgerConfirmCmd, ledgerPendingCmd, ledgerVerifyCmd)
}

func runLedgerDistribute(ctx context.Context, services *app.Services) error {
	result, err := services.Ledger.DistributeDepositFund(ctx, actorID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(result)
	}

	output.Success("distributed %s", output.Money(result.Distributed))
	rows := make([][]string, 0, len(result.Shares))
	for _, share := range result.Shares {
		rows = append(rows, []string{share.FundName, output.Money(share.Amount), output.Money(share.Balance)})
	}
	output.Table([]string{"FUND", "AMOUNT", "BALANCE"}, rows)
	if !result.Residue.IsZero() {
		output.Info("%s stays in the deposit fund", output.Money(result.Residue))
	}
	return nil
}

func runLedgerVerify(ctx context.Context, services *app.Services) error {
	report, err := services.Ledger.VerifyIntegrity(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(report)
	}

	if report.OK() {
		output.Success("ledger is consistent (%d funds checked)", report.FundsChecked)
		return nil
	}
	for _, issue := range report.Issues {
		output.Error("%s: %s", issue.Kind, issue.Detail)
	}
	return fmt.Errorf("ledger verification found %d issues", len(report.Issues))
}
