package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type structValidator interface {
	Struct(s any) error
}

type mailer interface {
	Send(ctx context.Context, msg dto.EmailMessage) error
}

type batchApplier interface {
	Apply(ctx context.Context, b *store.Batch) error
}

// notify sends best effort: a failed email is logged and never fails the
// operation that triggered it.
func notify(ctx context.Context, m mailer, build func() (dto.EmailMessage, error)) {
	if m == nil {
		return
	}
	log := logger.FromContext(ctx)
	msg, err := build()
	if err != nil {
		log.Error("failed to render email", "error", err)
		return
	}
	if err := m.Send(ctx, msg); err != nil {
		log.Warn("failed to send email", "subject", msg.Subject, "error", err)
	}
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func money(d decimal.Decimal) float64 {
	return finance.Money(d).InexactFloat64()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
