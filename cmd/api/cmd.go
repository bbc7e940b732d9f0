package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/coop-backend/internal/bootstrap"
	"github.com/GregMSThompson/coop-backend/internal/config"
	"github.com/GregMSThompson/coop-backend/internal/crypto"
	"github.com/GregMSThompson/coop-backend/internal/handlers"
	"github.com/GregMSThompson/coop-backend/internal/middleware"
	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/internal/router"
	"github.com/GregMSThompson/coop-backend/internal/services"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/internal/validation"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	validate := validation.New()

	// stores
	mstore := store.NewMemberStore(bs.Database)
	rgstore := store.NewRegistrationStore(bs.Database)
	adstore := store.NewAdminStore(bs.Database)
	rqstore := store.NewRequestStore(bs.Database)
	lstore := store.NewLoanStore(bs.Database)
	sstore := store.NewSettingsStore(bs.Database)
	tstore := store.NewTransactionStore(bs.Database)
	dstore := store.NewDividendStore(bs.Database)
	astore := store.NewAIStore(bs.Firestore)

	// services
	mserv := services.NewMemberService(mstore, lstore, bs.Auth, validate)
	rgserv := services.NewRegistrationService(rgstore, mstore, sstore, bs.Auth, bs.Mailer, validate, cfg.AppName)
	adserv := services.NewAdminService(adstore, bs.Auth, nil, bs.Mailer, validate, cfg.AppName)
	if bs.KMS != nil {
		adserv = services.NewAdminService(adstore, bs.Auth, crypto.NewKMS(bs.KMS, cfg.KMSKeyName), bs.Mailer, validate, cfg.AppName)
	}
	rqserv := services.NewRequestService(rqstore, mstore, sstore, lstore, bs.Mailer, validate)
	lserv := services.NewLoanService(lstore)
	remserv := services.NewReminderService(lstore, bs.Mailer, cfg.ReminderDays)
	sserv := services.NewSettingsService(sstore, validate)
	dvserv := services.NewDividendService(mstore, sstore, tstore, dstore)
	dbserv := services.NewDashboardService(mstore, sstore, lstore, rqstore, rgstore, tstore)
	tserv := services.NewTransactionService(mstore, tstore)
	exserv := services.NewExportService(mstore, adstore, lstore, rqstore, tstore, dvserv)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.MemberSvc = mserv
	deps.RegistrationSvc = rgserv
	deps.AdminSvc = adserv
	deps.RequestSvc = rqserv
	deps.LoanSvc = lserv
	deps.ReminderSvc = remserv
	deps.SettingsSvc = sserv
	deps.DividendSvc = dvserv
	deps.DashboardSvc = dbserv
	deps.TransactionSvc = tserv
	deps.ExportSvc = exserv
	if bs.VertexAdapter != nil {
		deps.AISvc = services.NewAIService(bs.VertexAdapter, dbserv, dvserv, astore, cfg.AITTL)
	}

	// router
	mw := middleware.NewMiddleware(bs.Auth, rh)
	r := router.NewRouter(deps, mw)
	bs.Log.Info("listening", "addr", cfg.Addr())
	err = http.ListenAndServe(cfg.Addr(), r)
	exitOnError("server start failed", err, bs.Log)
}
