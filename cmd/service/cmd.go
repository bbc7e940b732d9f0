// Command service runs the daily loan reminder sweep as a batch job.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GregMSThompson/coop-backend/internal/bootstrap"
	"github.com/GregMSThompson/coop-backend/internal/config"
	"github.com/GregMSThompson/coop-backend/internal/services"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
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

	ctx := logger.ToContext(context.Background(), bs.Log.With("job", "loan-reminders"))

	// stores
	lstore := store.NewLoanStore(bs.Database)

	// services
	remserv := services.NewReminderService(lstore, bs.Mailer, cfg.ReminderDays)

	res, err := remserv.Sweep(ctx)
	exitOnError("reminder sweep failed", err, bs.Log)
	if res.Failed > 0 {
		bs.Log.Warn("some reminders failed", "failed", res.Failed)
	}
}
