package services

import (
	"context"
	"time"

	emailclient "github.com/GregMSThompson/coop-backend/internal/client/email"
	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type reminderLoans interface {
	ListCurrentLoans(ctx context.Context) ([]models.Loan, error)
	MarkReminded(ctx context.Context, memberID, txID string, at time.Time) error
}

type reminderService struct {
	loans    reminderLoans
	mail     mailer
	days     int
	clockNow func() time.Time
}

func NewReminderService(loans reminderLoans, mail mailer, days int) *reminderService {
	return &reminderService{loans: loans, mail: mail, days: days, clockNow: utcNow}
}

// Sweep emails borrowers whose payment falls due within the reminder
// window and those already overdue. A loan is mailed at most once per day.
func (s *reminderService) Sweep(ctx context.Context) (dto.ReminderResult, error) {
	log := logger.FromContext(ctx)
	var res dto.ReminderResult

	loans, err := s.loans.ListCurrentLoans(ctx)
	if err != nil {
		return res, err
	}

	now := s.clockNow()
	for _, l := range loans {
		res.Checked++
		if l.Email == "" || remindedOn(l, now) {
			continue
		}

		var msg dto.EmailMessage
		overdue := false
		if penalty, days := finance.Penalty(dec(l.Interest), l.DueDate, now); days > 0 {
			msg, err = emailclient.OverdueNotice(l, days, money(penalty))
			overdue = true
		} else {
			left := emailclient.DaysUntil(l.DueDate, now)
			if left > s.days {
				continue
			}
			msg, err = emailclient.LoanReminder(l, left)
		}
		if err == nil {
			err = s.mail.Send(ctx, msg)
		}
		if err != nil {
			res.Failed++
			log.Warn("loan reminder failed", "member_id", l.MemberID, "transaction_id", l.TransactionID, "error", err)
			continue
		}

		if overdue {
			res.Overdue++
		} else {
			res.Reminded++
		}
		if err := s.loans.MarkReminded(ctx, l.MemberID, l.TransactionID, now); err != nil {
			log.Warn("failed to record reminder", "member_id", l.MemberID, "transaction_id", l.TransactionID, "error", err)
		}
	}

	log.Info("reminder sweep finished", "checked", res.Checked, "reminded", res.Reminded, "overdue", res.Overdue, "failed", res.Failed)
	return res, nil
}

func remindedOn(l models.Loan, now time.Time) bool {
	if l.LastReminderAt == nil {
		return false
	}
	y1, m1, d1 := l.LastReminderAt.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
