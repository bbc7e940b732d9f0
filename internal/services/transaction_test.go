package services

import (
	"testing"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
)

func TestTransactionHistory(t *testing.T) {
	db := newFakeDB()
	db.members["1"] = activeMember("1", 0, 0)
	db.addTx(models.TxDeposits, "1", 500, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	db.addTx(models.TxDeposits, "2", 700, time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC))
	db.addTx(models.TxLoans, "1", 6000, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	svc := NewTransactionService(db, db)

	all, err := svc.History(helpers.TestCtx(), "1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Transactions) != len(models.TransactionTypes) {
		t.Fatalf("expected every type present, got %v", all.Transactions)
	}
	if len(all.Transactions[models.TxDeposits]) != 1 || len(all.Transactions[models.TxLoans]) != 1 {
		t.Fatalf("unexpected history: %+v", all.Transactions)
	}
	if all.Transactions[models.TxDividends] == nil {
		t.Fatalf("empty types should be empty lists")
	}

	one, err := svc.History(helpers.TestCtx(), "1", models.TxLoans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(one.Transactions) != 1 {
		t.Fatalf("expected only Loans, got %v", one.Transactions)
	}
}

func TestTransactionHistoryErrors(t *testing.T) {
	db := newFakeDB()
	db.members["1"] = activeMember("1", 0, 0)
	svc := NewTransactionService(db, db)

	if _, err := svc.History(helpers.TestCtx(), "1", "Bonuses"); !isErr[*errs.ValidationError](err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.History(helpers.TestCtx(), "9", ""); !isErr[*errs.NotFoundError](err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
