package commands

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"housing-coop-go/internal/app"
	"housing-coop-go/internal/cli/output"
	rentdomain "housing-coop-go/internal/domain/rent"
)

var hundred = decimal.NewFromInt(100)

var rentCmd = &cobra.Command{
	Use:   "rent",
	Short: "Rent share estimates per household",
}

var rentSharesCmd = &cobra.Command{
	Use:   "shares [household-id]",
	Short: "Show what each household would pay by area, head count and income",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, services *app.Services) error {
			var shares []rentdomain.Shares
			if len(args) == 1 {
				one, err := services.Rent.CalculateRentShares(ctx, args[0])
				if err != nil {
					return err
				}
				shares = []rentdomain.Shares{*one}
			} else {
				all, err := services.Rent.CalculateAll(ctx)
				if err != nil {
					return err
				}
				shares = all
			}
			return printShares(shares)
		})
	},
}

func init() {
	rootCmd.AddCommand(rentCmd)
	rentCmd.AddCommand(rentSharesCmd)
}

func shareCell(amount decimal.Decimal, err error) string {
	if err != nil {
		return "n/a"
	}
	return output.Money(amount)
}

func printShares(shares []rentdomain.Shares) error {
	if jsonOutput {
		return output.JSON(shares)
	}
	if len(shares) == 0 {
		output.Warning("no active households")
		return nil
	}

	output.Section("Rent shares, monthly total " + output.Money(shares[0].MonthlyTotalRent))
	rows := make([][]string, 0, len(shares))
	for _, share := range shares {
		rows = append(rows, []string{
			share.HouseholdName,
			shareCell(share.ByArea, share.AreaErr),
			shareCell(share.ByHeadCount, share.HeadCountErr),
			shareCell(share.ByAvailableIncome, share.IncomeErr),
		})
	}
	output.Table([]string{"HOUSEHOLD", "BY AREA", "BY HEAD COUNT", "BY INCOME"}, rows)

	for _, err := range []error{shares[0].AreaErr, shares[0].HeadCountErr, shares[0].IncomeErr} {
		if err != nil {
			output.Muted("n/a: %v", err)
		}
	}
	return nil
}
