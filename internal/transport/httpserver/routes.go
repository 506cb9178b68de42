package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"housing-coop-go/internal/config"
	"housing-coop-go/internal/metrics"
	"housing-coop-go/internal/transport/httpserver/handler"
	"housing-coop-go/internal/transport/httpserver/middleware"
)

// NewRouter mounts the API. metrics may be nil when disabled.
func NewRouter(cfg config.Config, handlers *handler.Handlers, actors *middleware.ActorResolver, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSOrigins))
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
		handlers.SetLedgerObserver(m)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Group(func(r chi.Router) {
			r.Use(actors.Middleware)

			r.Get("/households", handlers.ListHouseholds)
			r.Get("/households/{id}", handlers.GetHousehold)
			r.Put("/households/{id}/income", handlers.UpdateIncome)
			r.Post("/households/{id}/confirm", handlers.ConfirmProfile)
			r.Post("/households/{id}/members", handlers.AddMember)
			r.Delete("/households/{id}/members/{person_id}", handlers.RemoveMember)
			r.Get("/categories", handlers.ListCategories)
			r.Get("/rooms", handlers.ListRooms)

			r.Get("/funds", handlers.ListFunds)
			r.Get("/transactions", handlers.ListTransactions)
			r.Get("/transactions/pending", handlers.ListPending)
			r.Post("/transactions", handlers.RecordTransaction)

			r.Get("/rent", handlers.ListRentShares)
			r.Get("/rent/{household_id}", handlers.GetRentShares)

			r.Get("/rounds/current", handlers.RoundStatus)
			r.Post("/rounds/current/bids", handlers.SubmitBid)
			r.Get("/rounds/current/default-bid", handlers.DefaultBid)

			r.Get("/payments/{household_id}/obligation", handlers.CurrentObligation)
			r.Get("/payments/{household_id}/schedules", handlers.ListSchedules)

			r.Get("/expenses", handlers.ListExpenses)
			r.Get("/expenses/totals", handlers.ExpenseTotals)
			r.Get("/changelog", handlers.ListChangeLog)

			r.Get("/analytics/funds", handlers.FundBalances)
			r.Get("/analytics/rent", handlers.RentDevelopment)
			r.Get("/analytics/deposits/compare", handlers.CompareDeposits)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/households", handlers.CreateHousehold)
				r.Put("/households/{id}/active", handlers.SetHouseholdActive)
				r.Post("/categories", handlers.CreateCategory)
				r.Post("/rooms", handlers.CreateRoom)
				r.Put("/rooms/{id}/tenants/{household_id}", handlers.AssignTenant)
				r.Delete("/rooms/{id}/tenants/{household_id}", handlers.UnassignTenant)

				r.Post("/funds", handlers.CreateFund)
				r.Put("/funds/{id}", handlers.UpdateFund)
				r.Delete("/funds/{id}", handlers.DeleteFund)
				r.Post("/transactions/{id}/confirm", handlers.ConfirmTransaction)
				r.Delete("/transactions/{id}", handlers.DeleteTransaction)
				r.Post("/transfers", handlers.TransferFunds)
				r.Post("/distributions", handlers.DistributeDepositFund)
				r.Get("/integrity", handlers.VerifyIntegrity)

				r.Post("/rounds", handlers.StartRound)
				r.Post("/rounds/current/accept", handlers.AcceptRound)
				r.Post("/rounds/current/decline", handlers.DeclineRound)
				r.Get("/payments/missing", handlers.MissingPayments)

				r.Post("/expenses", handlers.CreateExpense)
				r.Put("/expenses/{id}", handlers.UpdateExpense)
				r.Delete("/expenses/{id}", handlers.DeleteExpense)
			})
		})
	})

	return r
}
