package handlers

import (
	"net/http"
	"testing"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

func newLoanRouter(loans *fakeLoanSvc, rem *fakeReminderSvc) http.Handler {
	deps := testDeps()
	deps.LoanSvc = loans
	deps.ReminderSvc = rem
	return NewLoanHandlers(deps).LoanRoutes(stubRoutes())
}

func TestLoanRoutesKeepApplicationRoutes(t *testing.T) {
	h := newLoanRouter(&fakeLoanSvc{}, &fakeReminderSvc{})

	rr := serve(t, h, adminCaller, http.MethodGet, "/", "")
	mustStatus(t, rr, http.StatusTeapot)

	rr = serve(t, h, adminCaller, http.MethodGet, "/current", "")
	mustStatus(t, rr, http.StatusOK)
	if got := decodeData[[]models.Loan](t, rr); len(got) != 1 || got[0].TransactionID != "tx-1" {
		t.Fatalf("current = %+v", got)
	}

	rr = serve(t, h, adminCaller, http.MethodGet, "/paid", "")
	mustStatus(t, rr, http.StatusOK)
}

func TestLoanSchedule(t *testing.T) {
	loans := &fakeLoanSvc{}
	h := newLoanRouter(loans, &fakeReminderSvc{})

	rr := serve(t, h, coAdminCaller, http.MethodGet, "/current/0001/tx-5/schedule", "")
	mustStatus(t, rr, http.StatusOK)
	if loans.memberID != "0001" || loans.txID != "tx-5" {
		t.Fatalf("schedule(%q, %q)", loans.memberID, loans.txID)
	}
	if got := decodeData[[]dto.LoanScheduleRow](t, rr); len(got) != 1 || got[0].Payment != 1020 {
		t.Fatalf("rows = %+v", got)
	}
}

func TestSendReminders(t *testing.T) {
	rem := &fakeReminderSvc{}
	h := newLoanRouter(&fakeLoanSvc{}, rem)

	rr := serve(t, h, memberCaller, http.MethodPost, "/reminders", "")
	mustStatus(t, rr, http.StatusForbidden)
	if rem.calls != 0 {
		t.Fatal("sweep ran for a member")
	}

	rr = serve(t, h, adminCaller, http.MethodPost, "/reminders", "")
	mustStatus(t, rr, http.StatusOK)
	if got := decodeData[dto.ReminderResult](t, rr); got.Checked != 3 || got.Overdue != 1 {
		t.Fatalf("result = %+v", got)
	}
}
