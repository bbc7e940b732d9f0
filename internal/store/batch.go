package store

import (
	"time"

	"github.com/GregMSThompson/coop-backend/internal/models"
)

// Batch collects the writes of one state transition so they land in a
// single multi-path update.
type Batch struct {
	updates map[string]any
}

func NewBatch() *Batch {
	return &Batch{updates: map[string]any{}}
}

func (b *Batch) Len() int { return len(b.updates) }

// Updates returns the path → value map; nil values are deletions.
func (b *Batch) Updates() map[string]any { return b.updates }

func (b *Batch) set(p string, v any) *Batch {
	b.updates[p] = v
	return b
}

func (b *Batch) PutMember(m models.Member) *Batch {
	return b.set(memberPath(m.ID), m)
}

func (b *Batch) MemberBalance(id string, balance float64, at time.Time) *Batch {
	b.set(memberPath(id)+"/balance", balance)
	return b.set(memberPath(id)+"/updatedAt", at)
}

func (b *Batch) RemoveMember(id string) *Batch {
	return b.set(memberPath(id), nil)
}

func (b *Batch) RemoveCoAdmin(id string) *Batch {
	return b.set(coAdminPath(id), nil)
}

// MoveApplication deletes app from its from-status list and writes it
// under app.Status.
func (b *Batch) MoveApplication(app models.Application, from string) *Batch {
	if from != app.Status {
		b.set(applicationPath(app.Kind, from, app.MemberID, app.TransactionID), nil)
	}
	return b.set(applicationPath(app.Kind, app.Status, app.MemberID, app.TransactionID), app)
}

func (b *Batch) MoveRegistration(reg models.Registration, from string) *Batch {
	if from != reg.Status {
		b.set(registrationPath(from, reg.ID), nil)
	}
	return b.set(registrationPath(reg.Status, reg.ID), reg)
}

func (b *Batch) PutCurrentLoan(l models.Loan) *Batch {
	return b.set(currentLoanPath(l.MemberID, l.TransactionID), l)
}

// CloseLoan moves a fully paid loan out of CurrentLoans.
func (b *Batch) CloseLoan(l models.Loan) *Batch {
	b.set(currentLoanPath(l.MemberID, l.TransactionID), nil)
	return b.set(paidLoanPath(l.MemberID, l.TransactionID), l)
}

// SettingsField updates one top-level Settings key, e.g. "Funds".
func (b *Batch) SettingsField(key string, v any) *Batch {
	return b.set(pathSettings+"/"+key, v)
}

func (b *Batch) AddTransaction(tx models.Transaction) *Batch {
	return b.set(transactionPath(tx.Type, tx.MemberID, tx.TransactionID), tx)
}

func (b *Batch) PutDividend(rec models.DividendRecord) *Batch {
	return b.set(dividendPath(rec.Year), rec)
}

func (b *Batch) Archive(rec models.ArchivedRecord) *Batch {
	return b.set(archivePath(rec.Entity, rec.ID), rec)
}
