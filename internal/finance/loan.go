package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

// LoanTerms uses flat monthly interest on the original principal.
type LoanTerms struct {
	Amount              decimal.Decimal
	MonthlyRate         decimal.Decimal // percent per month
	Term                int             // months
	Interest            decimal.Decimal // per month
	MonthlyPayment      decimal.Decimal // principal per month
	TotalMonthlyPayment decimal.Decimal
	TotalTermPayment    decimal.Decimal
}

func ComputeLoanTerms(amount, monthlyRate decimal.Decimal, term int) (LoanTerms, error) {
	if !amount.IsPositive() {
		return LoanTerms{}, errs.NewValidationError("loan amount must be greater than zero")
	}
	if term <= 0 {
		return LoanTerms{}, errs.NewValidationError("loan term must be at least one month")
	}
	if monthlyRate.IsNegative() || monthlyRate.GreaterThan(hundred) {
		return LoanTerms{}, errs.NewValidationError("interest rate must be between 0 and 100")
	}

	months := decimal.NewFromInt(int64(term))
	t := LoanTerms{
		Amount:         Money(amount),
		MonthlyRate:    monthlyRate,
		Term:           term,
		Interest:       Money(Percent(amount, monthlyRate)),
		MonthlyPayment: Money(amount.Div(months)),
	}
	t.TotalMonthlyPayment = t.MonthlyPayment.Add(t.Interest)
	t.TotalTermPayment = t.TotalMonthlyPayment.Mul(months)
	return t, nil
}

// OverdueDays counts whole calendar days asOf is past dueDate.
func OverdueDays(dueDate, asOf time.Time) int {
	due := dateOnly(dueDate)
	now := dateOnly(asOf.In(dueDate.Location()))
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// Penalty is interest × overdueDays / 30.
func Penalty(interest decimal.Decimal, dueDate, asOf time.Time) (decimal.Decimal, int) {
	days := OverdueDays(dueDate, asOf)
	if days == 0 || !interest.IsPositive() {
		return decimal.Zero, days
	}
	return Money(interest.Mul(decimal.NewFromInt(int64(days))).Div(thirty)), days
}

type Allocation struct {
	Penalty   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
}

// AllocatePayment settles penalty first, then interest, and applies the
// remainder to principal.
func AllocatePayment(amount, interest, penalty decimal.Decimal) Allocation {
	var a Allocation
	remaining := amount
	a.Penalty = decimal.Min(remaining, penalty)
	remaining = remaining.Sub(a.Penalty)
	a.Interest = decimal.Min(remaining, interest)
	a.Principal = remaining.Sub(a.Interest)
	return a
}

type Installment struct {
	Number    int
	DueDate   time.Time
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Payment   decimal.Decimal
	Balance   decimal.Decimal
}

// AmortizationSchedule lays out term installments one month apart starting
// at firstDue. The last installment absorbs rounding so the balance ends at
// zero.
func AmortizationSchedule(t LoanTerms, firstDue time.Time) []Installment {
	out := make([]Installment, 0, t.Term)
	balance := t.Amount
	for i := 0; i < t.Term; i++ {
		principal := t.MonthlyPayment
		if i == t.Term-1 || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)
		out = append(out, Installment{
			Number:    i + 1,
			DueDate:   firstDue.AddDate(0, i, 0),
			Principal: principal,
			Interest:  t.Interest,
			Payment:   principal.Add(t.Interest),
			Balance:   balance,
		})
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
