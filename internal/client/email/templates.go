package emailclient

import (
	"bytes"
	"embed"
	"net/mail"
	"text/template"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

const dateLayout = "January 2, 2006"

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func message(to mail.Address, subject, tmpl string, data any) (dto.EmailMessage, error) {
	text, err := render(tmpl, data)
	if err != nil {
		return dto.EmailMessage{}, err
	}
	return dto.EmailMessage{
		To:      []mail.Address{to},
		Subject: subject,
		Text:    text,
	}, nil
}

func CoAdminCredentials(appName string, a models.Admin, password string) (dto.EmailMessage, error) {
	return message(mail.Address{Name: a.FullName(), Address: a.Email}, "Your co-admin account", "coadmin_credentials.txt", map[string]any{
		"Name":     a.FirstName,
		"AppName":  appName,
		"Email":    a.Email,
		"Password": password,
	})
}

func MemberCredentials(appName string, m models.Member, password string) (dto.EmailMessage, error) {
	return message(mail.Address{Name: m.FullName(), Address: m.Email}, "Welcome to "+appName, "member_credentials.txt", map[string]any{
		"Name":     m.FirstName,
		"AppName":  appName,
		"MemberID": m.ID,
		"Email":    m.Email,
		"Password": password,
	})
}

func LoanReminder(l models.Loan, daysLeft int) (dto.EmailMessage, error) {
	return message(mail.Address{Name: l.MemberName, Address: l.Email}, "Loan payment reminder", "loan_reminder.txt", map[string]any{
		"Name":        l.MemberName,
		"LoanType":    l.LoanType,
		"AmountDue":   l.TotalMonthlyPayment,
		"DueDate":     l.DueDate.Format(dateLayout),
		"DaysLeft":    daysLeft,
		"Outstanding": l.OutstandingBalance,
	})
}

func OverdueNotice(l models.Loan, overdueDays int, penalty float64) (dto.EmailMessage, error) {
	return message(mail.Address{Name: l.MemberName, Address: l.Email}, "Overdue loan payment", "overdue_notice.txt", map[string]any{
		"Name":        l.MemberName,
		"LoanType":    l.LoanType,
		"AmountDue":   l.TotalMonthlyPayment,
		"DueDate":     l.DueDate.Format(dateLayout),
		"OverdueDays": overdueDays,
		"Penalty":     penalty,
		"Outstanding": l.OutstandingBalance,
	})
}

func ApplicationDecision(app models.Application) (dto.EmailMessage, error) {
	decision := "approved"
	if app.Status == models.StatusRejected {
		decision = "rejected"
	}
	return message(mail.Address{Name: app.MemberName, Address: app.Email}, "Your "+kindLabel(app.Kind)+" application was "+decision, "application_decision.txt", map[string]any{
		"Name":      app.MemberName,
		"Kind":      kindLabel(app.Kind),
		"Reference": app.TransactionID,
		"Amount":    app.Amount,
		"Decision":  decision,
		"Reason":    app.RejectionReason,
	})
}

func RegistrationRejected(appName string, r models.Registration) (dto.EmailMessage, error) {
	return message(mail.Address{Name: r.FullName(), Address: r.Email}, "Membership application update", "registration_rejected.txt", map[string]any{
		"Name":    r.FirstName,
		"AppName": appName,
		"Reason":  r.RejectionReason,
	})
}

func kindLabel(k models.RequestKind) string {
	switch k {
	case models.KindDeposit:
		return "deposit"
	case models.KindWithdrawal:
		return "withdrawal"
	case models.KindPayment:
		return "payment"
	case models.KindLoan:
		return "loan"
	}
	return string(k)
}

// DaysUntil counts calendar days from asOf to due.
func DaysUntil(due, asOf time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(a).Hours() / 24)
}
