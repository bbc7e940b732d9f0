package services

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
)

func approveDeposit(b *store.Batch, app *models.Application, m *models.Member, st *models.Settings, now time.Time) error {
	amount := dec(app.Amount)
	b.MemberBalance(m.ID, money(dec(m.Balance).Add(amount)), now).
		SettingsField("Funds", money(dec(st.Funds).Add(amount))).
		SettingsField("Savings", money(dec(st.Savings).Add(amount))).
		AddTransaction(ledgerEntry(app, models.TxDeposits, now))
	return nil
}

func approveWithdrawal(b *store.Batch, app *models.Application, m *models.Member, st *models.Settings, now time.Time) error {
	amount := dec(app.Amount)
	if dec(m.Balance).LessThan(amount) {
		return errs.NewConflictError("withdrawal exceeds the member's balance")
	}
	if dec(st.Funds).LessThan(amount) {
		return errs.NewConflictError("cooperative funds are insufficient for this withdrawal")
	}
	if dec(st.Savings).LessThan(amount) {
		return errs.NewConflictError("cooperative savings are insufficient for this withdrawal")
	}
	b.MemberBalance(m.ID, money(dec(m.Balance).Sub(amount)), now).
		SettingsField("Funds", money(dec(st.Funds).Sub(amount))).
		SettingsField("Savings", money(dec(st.Savings).Sub(amount))).
		AddTransaction(ledgerEntry(app, models.TxWithdrawals, now))
	return nil
}

// approveLoan prices the loan from the rate of its type and opens it as a
// current loan with the first payment due one month out.
func (s *requestService) approveLoan(ctx context.Context, b *store.Batch, app *models.Application, st *models.Settings, now time.Time) error {
	rate, ok := st.InterestRateByType[app.LoanType]
	if !ok {
		return errs.NewValidationError("loan type " + app.LoanType + " has no interest rate")
	}
	if len(st.LoanTerms) > 0 && !slices.Contains(st.LoanTerms, app.Term) {
		return errs.NewValidationError("loan term is not offered")
	}

	current, err := s.loans.ListMemberCurrentLoans(ctx, app.MemberID)
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return errs.NewConflictError("member already has a current loan")
	}

	amount := dec(app.Amount)
	if dec(st.Funds).LessThan(amount) {
		return errs.NewConflictError("cooperative funds are insufficient for this loan")
	}

	terms, err := finance.ComputeLoanTerms(amount, dec(rate), app.Term)
	if err != nil {
		return err
	}

	b.PutCurrentLoan(models.Loan{
		TransactionID:       app.TransactionID,
		MemberID:            app.MemberID,
		MemberName:          app.MemberName,
		Email:               app.Email,
		LoanType:            app.LoanType,
		Amount:              money(terms.Amount),
		OutstandingBalance:  money(terms.Amount),
		InterestRate:        rate,
		Interest:            money(terms.Interest),
		Term:                terms.Term,
		MonthlyPayment:      money(terms.MonthlyPayment),
		TotalMonthlyPayment: money(terms.TotalMonthlyPayment),
		TotalTermPayment:    money(terms.TotalTermPayment),
		DueDate:             now.AddDate(0, 1, 0),
		DateApplied:         app.DateApplied,
		DateApproved:        now,
		Status:              models.LoanStatusCurrent,
	}).
		SettingsField("Funds", money(dec(st.Funds).Sub(amount))).
		AddTransaction(ledgerEntry(app, models.TxLoans, now))
	return nil
}

// approvePayment settles penalty, then interest, then principal on the
// member's current loan. Interest and penalty are income for the year's
// dividend pool; the loan closes once principal reaches zero.
func (s *requestService) approvePayment(ctx context.Context, b *store.Batch, app *models.Application, st *models.Settings, now time.Time) error {
	loan, err := s.loans.GetCurrentLoan(ctx, app.MemberID, app.LoanTransactionID)
	if err != nil {
		return err
	}

	interest := dec(loan.Interest)
	outstanding := dec(loan.OutstandingBalance)
	penalty, _ := finance.Penalty(interest, loan.DueDate, now)
	amount := dec(app.Amount)

	due := outstanding.Add(interest).Add(penalty)
	if amount.GreaterThan(due) {
		return errs.NewConflictError("payment exceeds the amount due of " + due.StringFixed(2))
	}

	alloc := finance.AllocatePayment(amount, interest, penalty)
	income := alloc.Interest.Add(alloc.Penalty)
	remaining := decimal.Max(decimal.Zero, outstanding.Sub(alloc.Principal))

	app.InterestPaid = money(alloc.Interest)
	app.PenaltyPaid = money(alloc.Penalty)
	app.PrincipalPaid = money(alloc.Principal)

	loan.OutstandingBalance = money(remaining)
	loan.PaymentsMade++
	loan.DueDate = loan.DueDate.AddDate(0, 1, 0)
	if remaining.IsZero() {
		loan.Status = models.LoanStatusPaid
		loan.DatePaid = &now
		b.CloseLoan(*loan)
	} else {
		b.PutCurrentLoan(*loan)
	}

	tx := ledgerEntry(app, models.TxPayments, now)
	tx.InterestPaid = app.InterestPaid
	tx.PenaltyPaid = app.PenaltyPaid
	tx.PrincipalPaid = app.PrincipalPaid

	b.SettingsField("Funds", money(dec(st.Funds).Add(amount))).
		SettingsField("Yields", money(dec(st.Yields).Add(income))).
		AddTransaction(tx)
	return nil
}

func ledgerEntry(app *models.Application, txType string, now time.Time) models.Transaction {
	return models.Transaction{
		TransactionID: app.TransactionID,
		MemberID:      app.MemberID,
		Type:          txType,
		Amount:        app.Amount,
		Status:        models.StatusApproved,
		Date:          now,
	}
}
