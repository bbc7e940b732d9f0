package store

import (
	"context"
	"sort"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type transactionStore struct {
	ledger
}

func NewTransactionStore(client *db.Client) *transactionStore {
	return &transactionStore{ledger: ledger{client: client}}
}

func (s *transactionStore) ListMemberTransactions(ctx context.Context, memberID, txType string) ([]models.Transaction, error) {
	ref := s.client.NewRef(pathTransactions).Child(txType).Child(memberID)
	all, err := listChildren[models.Transaction](ctx, ref)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	out := make([]models.Transaction, 0, len(all))
	for txID, tx := range all {
		tx.TransactionID = txID
		tx.MemberID = memberID
		tx.Type = txType
		out = append(out, tx)
	}
	sortTransactions(out)
	return out, nil
}

// ListTransactions returns every member's log of one type.
func (s *transactionStore) ListTransactions(ctx context.Context, txType string) ([]models.Transaction, error) {
	all, err := listNested[models.Transaction](ctx, s.client.NewRef(pathTransactions).Child(txType))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	var out []models.Transaction
	for memberID, txs := range all {
		for txID, tx := range txs {
			tx.TransactionID = txID
			tx.MemberID = memberID
			tx.Type = txType
			out = append(out, tx)
		}
	}
	sortTransactions(out)
	return out, nil
}

// newest first
func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
}
