package dto

type SubmitApplicationRequest struct {
	MemberID          string  `json:"memberId" validate:"required"`
	Amount            float64 `json:"amount" validate:"gt=0"`
	Method            string  `json:"method" validate:"omitempty,oneof=GCash Bank Cash"`
	AccountName       string  `json:"accountName" validate:"max=100"`
	AccountNumber     string  `json:"accountNumber" validate:"max=40"`
	LoanType          string  `json:"loanType"`
	Term              int     `json:"term" validate:"gte=0,lte=60"`
	LoanTransactionID string  `json:"loanTransactionId"`
}

type LoanScheduleRow struct {
	Number    int     `json:"number"`
	DueDate   string  `json:"dueDate"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Payment   float64 `json:"payment"`
	Balance   float64 `json:"balance"`
}

type ReminderResult struct {
	Checked  int `json:"checked"`
	Reminded int `json:"reminded"`
	Overdue  int `json:"overdue"`
	Failed   int `json:"failed"`
}
