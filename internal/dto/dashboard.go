package dto

type DashboardSummary struct {
	Year            int            `json:"year"`
	Members         MemberCounts   `json:"members"`
	Funds           float64        `json:"funds"`
	Savings         float64        `json:"savings"`
	Yields          float64        `json:"yields"`
	Loans           LoanTotals     `json:"loans"`
	PendingRequests map[string]int `json:"pendingRequests"`
	Monthly         []MonthlyPoint `json:"monthly"`
}

type MemberCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type LoanTotals struct {
	Current     int     `json:"current"`
	Outstanding float64 `json:"outstanding"`
	Overdue     int     `json:"overdue"`
}

// MonthlyPoint is one chart bucket; Month is 1-12.
type MonthlyPoint struct {
	Month       int     `json:"month"`
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Loans       float64 `json:"loans"`
	Payments    float64 `json:"payments"`
}

type MemberSummary struct {
	MemberID         string             `json:"memberId"`
	Name             string             `json:"name"`
	Status           string             `json:"status"`
	Balance          float64            `json:"balance"`
	Investment       float64            `json:"investment"`
	CurrentLoans     []LoanSnapshot     `json:"currentLoans"`
	PendingRequests  map[string]int     `json:"pendingRequests"`
	TotalsByType     map[string]float64 `json:"totalsByType"`
	TransactionCount int                `json:"transactionCount"`
}

type LoanSnapshot struct {
	TransactionID      string  `json:"transactionId"`
	MemberID           string  `json:"memberId,omitempty"`
	MemberName         string  `json:"memberName,omitempty"`
	LoanType           string  `json:"loanType"`
	Amount             float64 `json:"amount"`
	OutstandingBalance float64 `json:"outstandingBalance"`
	DueDate            string  `json:"dueDate"`
	OverdueDays        int     `json:"overdueDays"`
	Penalty            float64 `json:"penalty"`
}
