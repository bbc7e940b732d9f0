package models

import "time"

// Transaction log types; each is a subtree under Transactions.
const (
	TxDeposits      = "Deposits"
	TxWithdrawals   = "Withdrawals"
	TxLoans         = "Loans"
	TxPayments      = "Payments"
	TxDividends     = "Dividends"
	TxRegistrations = "Registrations"
)

var TransactionTypes = []string{TxDeposits, TxWithdrawals, TxLoans, TxPayments, TxDividends, TxRegistrations}

type Transaction struct {
	TransactionID string    `json:"transactionId"`
	MemberID      string    `json:"memberId"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	InterestPaid  float64   `json:"interestPaid,omitempty"`
	PenaltyPaid   float64   `json:"penaltyPaid,omitempty"`
	PrincipalPaid float64   `json:"principalPaid,omitempty"`
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
}

type DividendRecord struct {
	Year          int                `json:"year"`
	Pool          float64            `json:"pool"`
	MembersPool   float64            `json:"membersPool"`
	FiveKIShare   float64            `json:"fiveKIShare"`
	Distributed   float64            `json:"distributed"`
	Undistributed float64            `json:"undistributed"`
	MemberCount   int                `json:"memberCount"`
	Shares        map[string]float64 `json:"shares"`
	DistributedAt time.Time          `json:"distributedAt"`
	DistributedBy string             `json:"distributedBy"`
}

type ArchivedRecord struct {
	Entity     string    `json:"entity"`
	ID         string    `json:"id"`
	Data       any       `json:"data"`
	ArchivedAt time.Time `json:"archivedAt"`
	ArchivedBy string    `json:"archivedBy,omitempty"`
}
