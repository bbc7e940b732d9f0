package services

import (
	"testing"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/validation"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
)

func newRequestService(db *fakeDB, mail *fakeMailer) *requestService {
	svc := NewRequestService(db, db, db, db, mail, validation.New())
	svc.clockNow = fixedClock
	svc.newID = func() string { return "tx-new" }
	return svc
}

func requestFixture() *fakeDB {
	db := newFakeDB()
	db.members["5"] = activeMember("5", 1000, 3000)
	db.settings = models.Settings{
		Funds:              50000,
		Savings:            20000,
		Yields:             100,
		InterestRateByType: map[string]float64{"Regular": 2, "Emergency": 1},
		LoanTypes:          []string{"Regular", "Emergency"},
		LoanTerms:          []int{6, 12},
	}
	return db
}

func pendingApp(kind models.RequestKind, amount float64) models.Application {
	return models.Application{
		TransactionID: "tx-1",
		Kind:          kind,
		MemberID:      "5",
		MemberName:    "Member 5",
		Email:         "member5@example.com",
		Amount:        amount,
		Status:        models.StatusPending,
		DateApplied:   testNow.AddDate(0, 0, -1),
	}
}

func TestSubmitDeposit(t *testing.T) {
	db := requestFixture()
	svc := newRequestService(db, &fakeMailer{})

	app, err := svc.Submit(helpers.TestCtx(), models.KindDeposit, dto.SubmitApplicationRequest{
		MemberID: "5",
		Amount:   500,
		Method:   "GCash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.TransactionID != "tx-new" || app.Status != models.StatusPending || app.MemberName != "Member 5" {
		t.Fatalf("unexpected application: %+v", app)
	}
	if len(db.apps) != 1 {
		t.Fatalf("expected application stored")
	}
}

func TestSubmitRejectsInactiveMember(t *testing.T) {
	db := requestFixture()
	m := db.members["5"]
	m.Status = models.StatusInactive
	db.members["5"] = m
	svc := newRequestService(db, &fakeMailer{})

	_, err := svc.Submit(helpers.TestCtx(), models.KindDeposit, dto.SubmitApplicationRequest{MemberID: "5", Amount: 500})
	if !isErr[*errs.ConflictError](err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	db := requestFixture()
	svc := newRequestService(db, &fakeMailer{})

	tests := []struct {
		name string
		kind models.RequestKind
		req  dto.SubmitApplicationRequest
		want func(error) bool
	}{
		{"zero amount", models.KindDeposit, dto.SubmitApplicationRequest{MemberID: "5"}, isErr[*errs.ValidationError]},
		{"bad method", models.KindDeposit, dto.SubmitApplicationRequest{MemberID: "5", Amount: 1, Method: "Cheque"}, isErr[*errs.ValidationError]},
		{"withdraw over balance", models.KindWithdrawal, dto.SubmitApplicationRequest{MemberID: "5", Amount: 1500}, isErr[*errs.ConflictError]},
		{"unknown loan type", models.KindLoan, dto.SubmitApplicationRequest{MemberID: "5", Amount: 1000, LoanType: "Car", Term: 6}, isErr[*errs.ValidationError]},
		{"term not offered", models.KindLoan, dto.SubmitApplicationRequest{MemberID: "5", Amount: 1000, LoanType: "Regular", Term: 7}, isErr[*errs.ValidationError]},
		{"payment without loan", models.KindPayment, dto.SubmitApplicationRequest{MemberID: "5", Amount: 100}, isErr[*errs.ConflictError]},
		{"unknown kind", models.RequestKind("bonds"), dto.SubmitApplicationRequest{MemberID: "5", Amount: 100}, isErr[*errs.NotFoundError]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(helpers.TestCtx(), tc.kind, tc.req)
			if !tc.want(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSubmitPaymentResolvesSingleLoan(t *testing.T) {
	db := requestFixture()
	db.loans = []models.Loan{{TransactionID: "loan-1", MemberID: "5", Status: models.LoanStatusCurrent}}
	svc := newRequestService(db, &fakeMailer{})

	app, err := svc.Submit(helpers.TestCtx(), models.KindPayment, dto.SubmitApplicationRequest{MemberID: "5", Amount: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.LoanTransactionID != "loan-1" {
		t.Fatalf("LoanTransactionID = %q", app.LoanTransactionID)
	}
}

func TestApproveDeposit(t *testing.T) {
	db := requestFixture()
	db.apps = []models.Application{pendingApp(models.KindDeposit, 500)}
	mail := &fakeMailer{}
	svc := newRequestService(db, mail)

	app, err := svc.Approve(helpers.TestCtx(), models.KindDeposit, "5", "tx-1", "admin-uid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != models.StatusApproved || app.ProcessedBy != "admin-uid" {
		t.Fatalf("unexpected application: %+v", app)
	}

	updates := db.lastUpdates()
	want := map[string]float64{
		"Members/5/balance": 1500,
		"Settings/Funds":    50500,
		"Settings/Savings":  20500,
	}
	for path, v := range want {
		if updates[path] != v {
			t.Fatalf("%s = %v, want %v", path, updates[path], v)
		}
	}
	if v, ok := updates["Deposits/DepositApplications/5/tx-1"]; !ok || v != nil {
		t.Fatalf("expected pending application removed")
	}
	if _, ok := updates["Deposits/ApprovedDeposits/5/tx-1"].(models.Application); !ok {
		t.Fatalf("expected approved application written")
	}
	if _, ok := updates["Transactions/Deposits/5/tx-1"].(models.Transaction); !ok {
		t.Fatalf("expected transaction log entry")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected decision email")
	}
}

func TestApproveWithdrawalInsufficientBalance(t *testing.T) {
	db := requestFixture()
	db.apps = []models.Application{pendingApp(models.KindWithdrawal, 2000)}
	svc := newRequestService(db, &fakeMailer{})

	_, err := svc.Approve(helpers.TestCtx(), models.KindWithdrawal, "5", "tx-1", "admin-uid")
	if !isErr[*errs.ConflictError](err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(db.batches) != 0 {
		t.Fatalf("expected no writes")
	}
}

func TestApproveWithdrawal(t *testing.T) {
	db := requestFixture()
	db.apps = []models.Application{pendingApp(models.KindWithdrawal, 400)}
	svc := newRequestService(db, &fakeMailer{})

	if _, err := svc.Approve(helpers.TestCtx(), models.KindWithdrawal, "5", "tx-1", "admin-uid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updates := db.lastUpdates()
	if updates["Members/5/balance"] != 600.0 || updates["Settings/Funds"] != 49600.0 || updates["Settings/Savings"] != 19600.0 {
		t.Fatalf("unexpected updates: %v", updates)
	}
	if _, ok := updates["Withdrawals/ApprovedWithdraws/5/tx-1"]; !ok {
		t.Fatalf("expected approved withdrawal written")
	}
}

func TestApproveWithdrawalInsufficientSavings(t *testing.T) {
	db := requestFixture()
	db.settings.Savings = 100
	db.apps = []models.Application{pendingApp(models.KindWithdrawal, 400)}
	svc := newRequestService(db, &fakeMailer{})

	_, err := svc.Approve(helpers.TestCtx(), models.KindWithdrawal, "5", "tx-1", "admin-uid")
	if !isErr[*errs.ConflictError](err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(db.batches) != 0 {
		t.Fatalf("expected no writes")
	}
}

func TestApproveLoan(t *testing.T) {
	db := requestFixture()
	app := pendingApp(models.KindLoan, 12000)
	app.LoanType = "Regular"
	app.Term = 12
	db.apps = []models.Application{app}
	svc := newRequestService(db, &fakeMailer{})

	if _, err := svc.Approve(helpers.TestCtx(), models.KindLoan, "5", "tx-1", "admin-uid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updates := db.lastUpdates()
	loan, ok := updates["Loans/CurrentLoans/5/tx-1"].(models.Loan)
	if !ok {
		t.Fatalf("expected current loan written: %v", updates)
	}
	if loan.Interest != 240 || loan.MonthlyPayment != 1000 || loan.TotalMonthlyPayment != 1240 || loan.OutstandingBalance != 12000 {
		t.Fatalf("unexpected loan terms: %+v", loan)
	}
	if !loan.DueDate.Equal(testNow.AddDate(0, 1, 0)) {
		t.Fatalf("DueDate = %v", loan.DueDate)
	}
	if updates["Settings/Funds"] != 38000.0 {
		t.Fatalf("Funds = %v", updates["Settings/Funds"])
	}
	if _, ok := updates["Loans/ApprovedLoans/5/tx-1"]; !ok {
		t.Fatalf("expected approved loan application")
	}
}

func TestApproveLoanRefusals(t *testing.T) {
	tests := []struct {
		name  string
		setup func(db *fakeDB, app *models.Application)
		want  func(error) bool
	}{
		{"existing loan", func(db *fakeDB, app *models.Application) {
			db.loans = []models.Loan{{TransactionID: "old", MemberID: "5", Status: models.LoanStatusCurrent}}
		}, isErr[*errs.ConflictError]},
		{"insufficient funds", func(db *fakeDB, app *models.Application) {
			db.settings.Funds = 100
		}, isErr[*errs.ConflictError]},
		{"unknown type", func(db *fakeDB, app *models.Application) {
			app.LoanType = "Car"
		}, isErr[*errs.ValidationError]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := requestFixture()
			app := pendingApp(models.KindLoan, 12000)
			app.LoanType = "Regular"
			app.Term = 12
			tc.setup(db, &app)
			db.apps = []models.Application{app}
			svc := newRequestService(db, &fakeMailer{})

			_, err := svc.Approve(helpers.TestCtx(), models.KindLoan, "5", "tx-1", "admin-uid")
			if !tc.want(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func currentLoan(dueInDays int) models.Loan {
	return models.Loan{
		TransactionID:      "loan-1",
		MemberID:           "5",
		MemberName:         "Member 5",
		Email:              "member5@example.com",
		LoanType:           "Regular",
		Amount:             12000,
		OutstandingBalance: 6000,
		InterestRate:       2,
		Interest:           240,
		Term:               12,
		MonthlyPayment:     1000,
		PaymentsMade:       6,
		DueDate:            testNow.AddDate(0, 0, dueInDays),
		Status:             models.LoanStatusCurrent,
	}
}

func TestApprovePaymentOnTime(t *testing.T) {
	db := requestFixture()
	db.loans = []models.Loan{currentLoan(5)}
	app := pendingApp(models.KindPayment, 1240)
	app.LoanTransactionID = "loan-1"
	db.apps = []models.Application{app}
	svc := newRequestService(db, &fakeMailer{})

	approved, err := svc.Approve(helpers.TestCtx(), models.KindPayment, "5", "tx-1", "admin-uid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.InterestPaid != 240 || approved.PrincipalPaid != 1000 || approved.PenaltyPaid != 0 {
		t.Fatalf("unexpected allocation: %+v", approved)
	}

	updates := db.lastUpdates()
	loan := updates["Loans/CurrentLoans/5/loan-1"].(models.Loan)
	if loan.OutstandingBalance != 5000 || loan.PaymentsMade != 7 {
		t.Fatalf("unexpected loan: %+v", loan)
	}
	if !loan.DueDate.Equal(testNow.AddDate(0, 0, 5).AddDate(0, 1, 0)) {
		t.Fatalf("DueDate = %v", loan.DueDate)
	}
	if updates["Settings/Funds"] != 51240.0 || updates["Settings/Yields"] != 340.0 {
		t.Fatalf("unexpected settings: funds=%v yields=%v", updates["Settings/Funds"], updates["Settings/Yields"])
	}
	tx := updates["Transactions/Payments/5/tx-1"].(models.Transaction)
	if tx.InterestPaid != 240 {
		t.Fatalf("InterestPaid = %v", tx.InterestPaid)
	}
}

func TestApprovePaymentClosesOverdueLoan(t *testing.T) {
	db := requestFixture()
	db.loans = []models.Loan{currentLoan(-15)}
	app := pendingApp(models.KindPayment, 6360)
	app.LoanTransactionID = "loan-1"
	db.apps = []models.Application{app}
	svc := newRequestService(db, &fakeMailer{})

	approved, err := svc.Approve(helpers.TestCtx(), models.KindPayment, "5", "tx-1", "admin-uid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.PenaltyPaid != 120 || approved.InterestPaid != 240 || approved.PrincipalPaid != 6000 {
		t.Fatalf("unexpected allocation: %+v", approved)
	}

	updates := db.lastUpdates()
	if v, ok := updates["Loans/CurrentLoans/5/loan-1"]; !ok || v != nil {
		t.Fatalf("expected current loan removed")
	}
	paid := updates["Loans/PaidLoans/5/loan-1"].(models.Loan)
	if paid.Status != models.LoanStatusPaid || paid.DatePaid == nil || paid.OutstandingBalance != 0 {
		t.Fatalf("unexpected paid loan: %+v", paid)
	}
	if updates["Settings/Yields"] != 460.0 {
		t.Fatalf("Yields = %v", updates["Settings/Yields"])
	}
}

func TestApprovePaymentOverpayment(t *testing.T) {
	db := requestFixture()
	db.loans = []models.Loan{currentLoan(5)}
	app := pendingApp(models.KindPayment, 7000)
	app.LoanTransactionID = "loan-1"
	db.apps = []models.Application{app}
	svc := newRequestService(db, &fakeMailer{})

	_, err := svc.Approve(helpers.TestCtx(), models.KindPayment, "5", "tx-1", "admin-uid")
	if !isErr[*errs.ConflictError](err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRejectApplication(t *testing.T) {
	db := requestFixture()
	db.apps = []models.Application{pendingApp(models.KindDeposit, 500)}
	mail := &fakeMailer{}
	svc := newRequestService(db, mail)

	app, err := svc.Reject(helpers.TestCtx(), models.KindDeposit, "5", "tx-1", "admin-uid", "receipt unreadable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != models.StatusRejected || app.RejectionReason != "receipt unreadable" {
		t.Fatalf("unexpected application: %+v", app)
	}
	updates := db.lastUpdates()
	if _, ok := updates["Deposits/RejectedDeposits/5/tx-1"]; !ok {
		t.Fatalf("expected rejected application written")
	}
	if _, ok := updates["Members/5/balance"]; ok {
		t.Fatalf("rejection must not touch the balance")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected decision email")
	}
}

func TestListDefaultsToPending(t *testing.T) {
	db := requestFixture()
	approved := pendingApp(models.KindDeposit, 10)
	approved.TransactionID = "tx-2"
	approved.Status = models.StatusApproved
	db.apps = []models.Application{pendingApp(models.KindDeposit, 500), approved}
	svc := newRequestService(db, &fakeMailer{})

	apps, err := svc.List(helpers.TestCtx(), models.KindDeposit, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(apps) != 1 || apps[0].TransactionID != "tx-1" {
		t.Fatalf("unexpected applications: %+v", apps)
	}
	if _, err := svc.List(helpers.TestCtx(), models.KindDeposit, "archived", ""); !isErr[*errs.ValidationError](err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
