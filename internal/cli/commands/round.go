package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"housing-coop-go/internal/app"
	"housing-coop-go/internal/cli/output"
	biddingdomain "housing-coop-go/internal/domain/bidding"
)

var (
	periodStart string
	periodEnd   string
)

var roundCmd = &cobra.Command{
	Use:   "round",
	Short: "Start, inspect, accept or decline a bidding round",
}

var roundStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a bidding round for a rent period",
	Long: `Open a bidding round. The monthly cash need is taken from the fund targets and the giro need from
the expenses at the moment the round opens.

Examples:
  coopctl round start --from 2025-01-01 --to 2025-12-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDate("from", periodStart)
		if err != nil {
			return err
		}
		end, err := parseDate("to", periodEnd)
		if err != nil {
			return err
		}
		return withServices(func(ctx context.Context, services *app.Services) error {
			round, err := services.Bidding.StartRound(ctx, start, end)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(round)
			}
			output.Success("round %s opened", round.ID)
			printRound(*round)
			return nil
		})
	},
}

var roundStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open round and who has not bid yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(runRoundStatus)
	},
}

var roundAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept the open round and write the payment schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(runRoundAccept)
	},
}

var roundDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline the open round and open a fresh copy for re-bidding",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, services *app.Services) error {
			next, err := services.Bidding.DeclineRound(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(next)
			}
			output.Warning("round declined, households must bid again")
			printRound(*next)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(roundCmd)
	roundCmd.AddCommand(roundStartCmd, roundStatusCmd, roundAcceptCmd, roundDeclineCmd)

	roundStartCmd.Flags().StringVar(&periodStart, "from", "", "First day of the rent period (YYYY-MM-DD)")
	roundStartCmd.Flags().StringVar(&periodEnd, "to", "", "Last day of the rent period (YYYY-MM-DD)")
}

func printRound(round biddingdomain.Round) {
	output.Table([]string{"FIELD", "VALUE"}, [][]string{
		{"status", output.StatusIcon(round.Status) + " " + round.Status},
		{"period", round.PeriodStart.Format(dateLayout) + " .. " + round.PeriodEnd.Format(dateLayout)},
		{"cash needed", output.Money(round.TotalCashNeeded)},
		{"giro needed", output.Money(round.TotalGiroNeeded)},
		{"pledged", output.Money(round.TotalAmountPledged)},
		{"shortfall", output.Money(round.AmountShortfall())},
	})
}

func runRoundStatus(ctx context.Context, services *app.Services) error {
	status, err := services.Bidding.Status(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(status)
	}

	output.Section("Bidding round " + status.Round.ID)
	printRound(status.Round)
	output.Info("%d of %d active households have bid", len(status.Bids), status.ActiveHouseholds)
	for _, household := range status.MissingBids {
		output.Muted("  waiting for %s", household.Name)
	}
	if status.Complete {
		output.Success("round is complete and can be accepted")
	}
	return nil
}

func runRoundAccept(ctx context.Context, services *app.Services) error {
	result, err := services.Bidding.AcceptRound(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(result)
	}

	output.Success("round %s accepted", result.Round.ID)
	output.Info("effective cash need %s", output.Money(result.EffectiveCashNeeded))
	rows := make([][]string, 0, len(result.Allocations))
	for _, allocation := range result.Allocations {
		rows = append(rows, []string{
			allocation.HouseholdID,
			output.Money(allocation.Bid),
			fmt.Sprintf("%s%%", allocation.Proportion.Mul(hundred).StringFixed(1)),
			output.Money(allocation.Cash),
			output.Money(allocation.Giro),
		})
	}
	output.Table([]string{"HOUSEHOLD", "BID", "SHARE", "CASH", "GIRO"}, rows)
	return nil
}
