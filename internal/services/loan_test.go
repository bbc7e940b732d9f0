package services

import (
	"testing"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
)

func TestLoanSchedule(t *testing.T) {
	db := newFakeDB()
	loan := currentLoan(5)
	loan.OutstandingBalance = 3000
	loan.Term = 12
	loan.PaymentsMade = 9
	db.loans = []models.Loan{loan}
	svc := NewLoanService(db)

	rows, err := svc.Schedule(helpers.TestCtx(), "5", "loan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 remaining installments, got %d", len(rows))
	}
	if rows[0].Number != 10 || rows[0].DueDate != loan.DueDate.Format(dateLayout) {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.Balance != 0 || last.Number != 12 {
		t.Fatalf("unexpected last row: %+v", last)
	}
	if rows[0].Interest != 240 || rows[0].Principal != 1000 {
		t.Fatalf("unexpected installment: %+v", rows[0])
	}
}

func TestLoanScheduleNotFound(t *testing.T) {
	svc := NewLoanService(newFakeDB())

	if _, err := svc.Schedule(helpers.TestCtx(), "5", "missing"); !isErr[*errs.NotFoundError](err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
