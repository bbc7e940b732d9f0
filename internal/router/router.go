package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/coop-backend/internal/handlers"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mh := handlers.NewMemberHandlers(deps)
	rgh := handlers.NewRegistrationHandlers(deps)
	adh := handlers.NewAdminHandlers(deps)
	rqh := handlers.NewRequestHandlers(deps)
	lh := handlers.NewLoanHandlers(deps)
	sh := handlers.NewSettingsHandlers(deps)
	dvh := handlers.NewDividendHandlers(deps)
	dbh := handlers.NewDashboardHandlers(deps)
	exh := handlers.NewExportHandlers(deps)
	aih := handlers.NewAIHandlers(deps)

	staff := mw.RequireRole(models.RoleAdmin, models.RoleCoAdmin)

	// applicants have no account yet, so only submission is public
	r.Mount("/registrations", rgh.RegistrationRoutes(mw.FirebaseAuth, staff))

	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)

		// members may reach these for their own records
		r.Mount("/members", mh.MemberRoutes())
		r.Mount("/deposits", rqh.RequestRoutes(models.KindDeposit))
		r.Mount("/withdrawals", rqh.RequestRoutes(models.KindWithdrawal))
		r.Mount("/payments", rqh.RequestRoutes(models.KindPayment))
		r.Mount("/loans", lh.LoanRoutes(rqh.RequestRoutes(models.KindLoan)))
		r.Mount("/settings", sh.SettingsRoutes())
		r.Mount("/admins", adh.AdminRoutes())

		r.Group(func(r chi.Router) {
			r.Use(staff)
			r.Mount("/dividends", dvh.DividendRoutes())
			r.Mount("/dashboard", dbh.DashboardRoutes())
			r.Mount("/exports", exh.ExportRoutes())
			r.Mount("/ai", aih.AIRoutes())
		})

		r.With(mw.RequireRole(models.RoleAdmin)).Mount("/coadmins", adh.CoAdminRoutes())
	})

	return r
}
