package handler

import (
	analyticsdomain "housing-coop-go/internal/domain/analytics"
	biddingdomain "housing-coop-go/internal/domain/bidding"
	changelogdomain "housing-coop-go/internal/domain/changelog"
	expensesdomain "housing-coop-go/internal/domain/expenses"
	householddomain "housing-coop-go/internal/domain/household"
	ledgerdomain "housing-coop-go/internal/domain/ledger"
	rentdomain "housing-coop-go/internal/domain/rent"
	scheduledomain "housing-coop-go/internal/domain/schedule"
	"housing-coop-go/pkg/logger"
)

type Handlers struct {
	Households *householddomain.Service
	Ledger     *ledgerdomain.Service
	Rent       *rentdomain.Service
	Bidding    *biddingdomain.Service
	Schedules  *scheduledomain.Service
	Expenses   *expensesdomain.Service
	ChangeLog  *changelogdomain.Service
	Analytics  *analyticsdomain.Service
	observer   LedgerObserver
	log        logger.Logger
}

// LedgerObserver is notified after a ledger mutation succeeds.
type LedgerObserver interface {
	ObserveLedger(operation string)
}

func New(
	households *householddomain.Service,
	ledger *ledgerdomain.Service,
	rent *rentdomain.Service,
	bidding *biddingdomain.Service,
	schedules *scheduledomain.Service,
	expenses *expensesdomain.Service,
	changes *changelogdomain.Service,
	analytics *analyticsdomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Households: households,
		Ledger:     ledger,
		Rent:       rent,
		Bidding:    bidding,
		Schedules:  schedules,
		Expenses:   expenses,
		ChangeLog:  changes,
		Analytics:  analytics,
		log:        log,
	}
}

func (h *Handlers) SetLedgerObserver(observer LedgerObserver) {
	h.observer = observer
}

func (h *Handlers) observeLedger(operation string) {
	if h.observer != nil {
		h.observer.ObserveLedger(operation)
	}
}
