package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"housing-coop-go/internal/app"
	"housing-coop-go/internal/cli/output"
)

var obligationAt string

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Missing deposits and current obligations",
}

var paymentsMissingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List months where confirmed deposits fall short of the cash obligation",
	Long: `Walk every household month by month from its last fully paid month and list the shortfalls.
Households that are fully paid up advance their marker as a side effect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(runPaymentsMissing)
	},
}

var paymentsObligationCmd = &cobra.Command{
	Use:   "obligation <household-id>",
	Short: "Show the cash and giro amounts in force for a household",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var at time.Time
		if obligationAt != "" {
			parsed, err := parseDate("at", obligationAt)
			if err != nil {
				return err
			}
			at = parsed
		}
		return withServices(func(ctx context.Context, services *app.Services) error {
			return runPaymentsObligation(ctx, services, args[0], at)
		})
	},
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsMissingCmd, paymentsObligationCmd)

	paymentsObligationCmd.Flags().StringVar(&obligationAt, "at", "", "Date to evaluate (YYYY-MM-DD, default today)")
}

func runPaymentsMissing(ctx context.Context, services *app.Services) error {
	result, err := services.Schedules.CheckMissingPayments(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(result)
	}
	if len(result) == 0 {
		output.Success("all households are paid up")
		return nil
	}

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return result[ids[i]].HouseholdName < result[ids[j]].HouseholdName })

	output.Section("Missing payments")
	rows := make([][]string, 0)
	for _, id := range ids {
		arrears := result[id]
		for _, month := range arrears.Months {
			rows = append(rows, []string{
				arrears.HouseholdName,
				month.Month.Format("2006-01"),
				output.Money(month.Required),
				output.Money(month.Paid),
				output.Money(month.Deficit),
			})
		}
	}
	output.Table([]string{"HOUSEHOLD", "MONTH", "REQUIRED", "PAID", "DEFICIT"}, rows)
	output.Warning("%d households in arrears", len(result))
	return nil
}

func runPaymentsObligation(ctx context.Context, services *app.Services, householdID string, at time.Time) error {
	obligation, err := services.Schedules.CurrentObligation(ctx, householdID, at)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(obligation)
	}

	output.Section(fmt.Sprintf("Obligation on %s", obligation.At.Format(dateLayout)))
	output.Table([]string{"KIND", "AMOUNT"}, [][]string{
		{"cash", output.Money(obligation.Cash)},
		{"giro", output.Money(obligation.Giro)},
		{"total", output.Money(obligation.Total())},
	})
	return nil
}
