package models

import "time"

const (
	LoanStatusCurrent = "current"
	LoanStatusPaid    = "paid"
)

type Loan struct {
	TransactionID       string     `json:"transactionId"`
	MemberID            string     `json:"memberId"`
	MemberName          string     `json:"memberName"`
	Email               string     `json:"email"`
	LoanType            string     `json:"loanType"`
	Amount              float64    `json:"amount"` // original principal
	OutstandingBalance  float64    `json:"outstandingBalance"`
	InterestRate        float64    `json:"interestRate"` // percent per month
	Interest            float64    `json:"interest"`     // per month
	Term                int        `json:"term"`
	MonthlyPayment      float64    `json:"monthlyPayment"`
	TotalMonthlyPayment float64    `json:"totalMonthlyPayment"`
	TotalTermPayment    float64    `json:"totalTermPayment"`
	PaymentsMade        int        `json:"paymentsMade"`
	DueDate             time.Time  `json:"dueDate"`
	DateApplied         time.Time  `json:"dateApplied"`
	DateApproved        time.Time  `json:"dateApproved"`
	DatePaid            *time.Time `json:"datePaid,omitempty"`
	LastReminderAt      *time.Time `json:"lastReminderAt,omitempty"`
	Status              string     `json:"status"`
}
