package services

import (
	"context"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type memberTransactions interface {
	ListMemberTransactions(ctx context.Context, memberID, txType string) ([]models.Transaction, error)
}

type transactionService struct {
	members memberReader
	store   memberTransactions
}

func NewTransactionService(members memberReader, store memberTransactions) *transactionService {
	return &transactionService{members: members, store: store}
}

// History returns a member's log; an empty txType means every type.
func (s *transactionService) History(ctx context.Context, memberID, txType string) (dto.MemberHistory, error) {
	out := dto.MemberHistory{MemberID: memberID, Transactions: map[string][]models.Transaction{}}

	types := models.TransactionTypes
	if txType != "" {
		if !validTransactionType(txType) {
			return out, errs.NewValidationError("unknown transaction type: " + txType)
		}
		types = []string{txType}
	}

	if _, err := s.members.GetMember(ctx, memberID); err != nil {
		return out, err
	}

	for _, t := range types {
		txs, err := s.store.ListMemberTransactions(ctx, memberID, t)
		if err != nil {
			return out, err
		}
		if txs == nil {
			txs = []models.Transaction{}
		}
		out.Transactions[t] = txs
	}
	return out, nil
}

func validTransactionType(t string) bool {
	for _, known := range models.TransactionTypes {
		if known == t {
			return true
		}
	}
	return false
}
