package services

import (
	"context"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type loanStore interface {
	ListCurrentLoans(ctx context.Context) ([]models.Loan, error)
	ListPaidLoans(ctx context.Context) ([]models.Loan, error)
	GetCurrentLoan(ctx context.Context, memberID, txID string) (*models.Loan, error)
}

type loanService struct {
	store loanStore
}

func NewLoanService(store loanStore) *loanService {
	return &loanService{store: store}
}

func (s *loanService) ListCurrentLoans(ctx context.Context) ([]models.Loan, error) {
	return s.store.ListCurrentLoans(ctx)
}

func (s *loanService) ListPaidLoans(ctx context.Context) ([]models.Loan, error) {
	return s.store.ListPaidLoans(ctx)
}

// Schedule lays out the remaining installments of a current loan from its
// next due date.
func (s *loanService) Schedule(ctx context.Context, memberID, txID string) ([]dto.LoanScheduleRow, error) {
	loan, err := s.store.GetCurrentLoan(ctx, memberID, txID)
	if err != nil {
		return nil, err
	}

	remaining := loan.Term - loan.PaymentsMade
	if remaining < 1 {
		remaining = 1
	}
	terms := finance.LoanTerms{
		Amount:         dec(loan.OutstandingBalance),
		Term:           remaining,
		Interest:       dec(loan.Interest),
		MonthlyPayment: dec(loan.MonthlyPayment),
	}

	rows := finance.AmortizationSchedule(terms, loan.DueDate)
	out := make([]dto.LoanScheduleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LoanScheduleRow{
			Number:    loan.PaymentsMade + r.Number,
			DueDate:   r.DueDate.Format(dateLayout),
			Principal: money(r.Principal),
			Interest:  money(r.Interest),
			Payment:   money(r.Payment),
			Balance:   money(r.Balance),
		})
	}
	return out, nil
}
