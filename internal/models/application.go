package models

import "time"

type RequestKind string

const (
	KindDeposit    RequestKind = "deposits"
	KindWithdrawal RequestKind = "withdrawals"
	KindPayment    RequestKind = "payments"
	KindLoan       RequestKind = "loans"
)

func (k RequestKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindPayment, KindLoan:
		return true
	}
	return false
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Application is a member-submitted deposit, withdrawal, payment or loan
// request waiting for (or past) an admin decision.
type Application struct {
	TransactionID string      `json:"transactionId"`
	Kind          RequestKind `json:"kind"`
	MemberID      string      `json:"memberId"`
	MemberName    string      `json:"memberName"`
	Email         string      `json:"email"`
	Amount        float64     `json:"amount"`
	Method        string      `json:"method,omitempty"` // GCash, Bank, Cash
	AccountName   string      `json:"accountName,omitempty"`
	AccountNumber string      `json:"accountNumber,omitempty"`

	LoanType          string `json:"loanType,omitempty"`
	Term              int    `json:"term,omitempty"`
	LoanTransactionID string `json:"loanTransactionId,omitempty"`

	// set when a payment is approved
	InterestPaid  float64 `json:"interestPaid,omitempty"`
	PenaltyPaid   float64 `json:"penaltyPaid,omitempty"`
	PrincipalPaid float64 `json:"principalPaid,omitempty"`

	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	DateApplied     time.Time  `json:"dateApplied"`
	DateProcessed   *time.Time `json:"dateProcessed,omitempty"`
	ProcessedBy     string     `json:"processedBy,omitempty"`
}
