package app

import (
	"gorm.io/gorm"
	"housing-coop-go/internal/config"
	analyticsdomain "housing-coop-go/internal/domain/analytics"
	biddingdomain "housing-coop-go/internal/domain/bidding"
	changelogdomain "housing-coop-go/internal/domain/changelog"
	expensesdomain "housing-coop-go/internal/domain/expenses"
	householddomain "housing-coop-go/internal/domain/household"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
	rentdomain "housing-coop-go/internal/domain/rent"
	scheduledomain "housing-coop-go/internal/domain/schedule"
	"housing-coop-go/internal/repository/inmemory"
	analyticsrepo "housing-coop-go/internal/repository/postgres/analytics"
	biddingrepo "housing-coop-go/internal/repository/postgres/bidding"
	changelogrepo "housing-coop-go/internal/repository/postgres/changelog"
	expensesrepo "housing-coop-go/internal/repository/postgres/expenses"
	householdrepo "housing-coop-go/internal/repository/postgres/household"
	ledgerrepo "housing-coop-go/internal/repository/postgres/ledger"
	rentrepo "housing-coop-go/internal/repository/postgres/rent"
	schedulerepo "housing-coop-go/internal/repository/postgres/schedule"
)

// Services is the set of domain services shared by the HTTP server and coopctl.
type Services struct {
	Households *householddomain.Service
	Ledger     *ledgerdomain.Service
	Rent       *rentdomain.Service
	Bidding    *biddingdomain.Service
	Schedules  *scheduledomain.Service
	Expenses   *expensesdomain.Service
	ChangeLog  *changelogdomain.Service
	Analytics  *analyticsdomain.Service
}

func NewServices(cfg config.Config, dbConn *gorm.DB) *Services {
	depositFund := cfg.Ledger.DepositFundName

	households := householddomain.NewService(householdrepo.NewPostgres(dbConn)).
		WithCache(inmemory.NewInMemoryHouseholdCache(), cfg.Households.CacheTTL)
	return &Services{
		Households: households,
		Ledger:     ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn), depositFund),
		Rent: rentdomain.NewService(rentrepo.NewPostgres(dbConn), households, rentdomain.Options{
			DepositFundName: depositFund,
			ProfileMaxAge:   cfg.Rent.ProfileMaxAge,
		}),
		Bidding: biddingdomain.NewService(biddingrepo.NewPostgres(dbConn), depositFund),
		Schedules: scheduledomain.NewService(schedulerepo.NewPostgres(dbConn), scheduledomain.Options{
			DepositFundName: depositFund,
			Epoch:           cfg.Payments.Epoch,
		}),
		Expenses:  expensesdomain.NewService(expensesrepo.NewPostgres(dbConn)),
		ChangeLog: changelogdomain.NewService(changelogrepo.NewPostgres(dbConn)),
		Analytics: analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), depositFund),
	}
}
