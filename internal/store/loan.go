package store

import (
	"context"
	"sort"
	"time"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type loanStore struct {
	ledger
}

func NewLoanStore(client *db.Client) *loanStore {
	return &loanStore{ledger: ledger{client: client}}
}

func (s *loanStore) ListCurrentLoans(ctx context.Context) ([]models.Loan, error) {
	return s.list(ctx, sectionCurrentLoans)
}

func (s *loanStore) ListPaidLoans(ctx context.Context) ([]models.Loan, error) {
	return s.list(ctx, sectionPaidLoans)
}

func (s *loanStore) list(ctx context.Context, section string) ([]models.Loan, error) {
	all, err := listNested[models.Loan](ctx, s.client.NewRef(pathLoans).Child(section))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list loans", err)
	}
	var out []models.Loan
	for memberID, loans := range all {
		for txID, l := range loans {
			l.MemberID = memberID
			l.TransactionID = txID
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *loanStore) ListMemberCurrentLoans(ctx context.Context, memberID string) ([]models.Loan, error) {
	all, err := listChildren[models.Loan](ctx, s.client.NewRef(pathLoans).Child(sectionCurrentLoans).Child(memberID))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list member loans", err)
	}
	out := make([]models.Loan, 0, len(all))
	for txID, l := range all {
		l.MemberID = memberID
		l.TransactionID = txID
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *loanStore) GetCurrentLoan(ctx context.Context, memberID, txID string) (*models.Loan, error) {
	var l models.Loan
	found, err := getNode(ctx, s.client.NewRef(currentLoanPath(memberID, txID)), &l)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read loan", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("current loan not found")
	}
	l.MemberID = memberID
	l.TransactionID = txID
	return &l, nil
}

func (s *loanStore) MarkReminded(ctx context.Context, memberID, txID string, at time.Time) error {
	err := s.client.NewRef(currentLoanPath(memberID, txID)).Update(ctx, map[string]interface{}{
		"lastReminderAt": at,
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to record loan reminder", err)
	}
	return nil
}
