package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/export"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

const dateLayout = "2006-01-02"

var ExportDatasets = []string{"members", "coadmins", "loans", "deposits", "withdrawals", "payments", "transactions", "dividends"}

type coAdminLister interface {
	ListCoAdmins(ctx context.Context) ([]models.Admin, error)
}

type currentLoanLister interface {
	ListCurrentLoans(ctx context.Context) ([]models.Loan, error)
}

type applicationLister interface {
	ListApplications(ctx context.Context, kind models.RequestKind, status string) ([]models.Application, error)
}

type dividendPreviewer interface {
	Preview(ctx context.Context, year int, pool *float64) (dto.DividendPreview, error)
}

type exportService struct {
	members      memberLister
	admins       coAdminLister
	loans        currentLoanLister
	requests     applicationLister
	transactions transactionLister
	dividends    dividendPreviewer
	clockNow     func() time.Time
}

func NewExportService(
	members memberLister,
	admins coAdminLister,
	loans currentLoanLister,
	requests applicationLister,
	transactions transactionLister,
	dividends dividendPreviewer,
) *exportService {
	return &exportService{
		members:      members,
		admins:       admins,
		loans:        loans,
		requests:     requests,
		transactions: transactions,
		dividends:    dividends,
		clockNow:     utcNow,
	}
}

// Export writes the dataset as an .xlsx workbook. Nothing is written to w
// when gathering the data fails.
func (s *exportService) Export(ctx context.Context, dataset string, year int, w io.Writer) error {
	sheets, err := s.sheets(ctx, dataset, year)
	if err != nil {
		return err
	}
	return export.Write(w, sheets...)
}

func (s *exportService) sheets(ctx context.Context, dataset string, year int) ([]export.Sheet, error) {
	switch dataset {
	case "members":
		return s.memberSheet(ctx)
	case "coadmins":
		return s.coAdminSheet(ctx)
	case "loans":
		return s.loanSheet(ctx)
	case "deposits", "withdrawals", "payments":
		return s.applicationSheet(ctx, models.RequestKind(dataset))
	case "transactions":
		return s.transactionSheets(ctx)
	case "dividends":
		if year == 0 {
			year = s.clockNow().Year()
		}
		return s.dividendSheet(ctx, year)
	}
	return nil, errs.NewValidationError("unknown dataset: " + dataset)
}

func (s *exportService) memberSheet(ctx context.Context) ([]export.Sheet, error) {
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	sh := export.Sheet{
		Name:    "Members",
		Headers: []string{"ID", "Name", "Email", "Contact Number", "Address", "Balance", "Investment", "Status", "Date Added"},
		Widths:  map[int]float64{1: 28, 2: 30, 4: 36},
	}
	for _, m := range members {
		sh.Rows = append(sh.Rows, []any{
			m.ID, m.FullName(), m.Email, m.ContactNumber, m.Address,
			m.Balance, m.Investment, m.Status, formatDate(m.DateAdded),
		})
	}
	return []export.Sheet{sh}, nil
}

func (s *exportService) coAdminSheet(ctx context.Context) ([]export.Sheet, error) {
	admins, err := s.admins.ListCoAdmins(ctx)
	if err != nil {
		return nil, err
	}
	sh := export.Sheet{
		Name:    "Co-Admins",
		Headers: []string{"ID", "Name", "Email", "Contact Number", "Date Added"},
		Widths:  map[int]float64{1: 28, 2: 30},
	}
	for _, a := range admins {
		sh.Rows = append(sh.Rows, []any{a.ID, a.FullName(), a.Email, a.ContactNumber, formatDate(a.DateAdded)})
	}
	return []export.Sheet{sh}, nil
}

func (s *exportService) loanSheet(ctx context.Context) ([]export.Sheet, error) {
	loans, err := s.loans.ListCurrentLoans(ctx)
	if err != nil {
		return nil, err
	}
	sh := export.Sheet{
		Name: "Current Loans",
		Headers: []string{
			"Transaction ID", "Member ID", "Member Name", "Loan Type", "Amount", "Outstanding Balance",
			"Interest Rate (%)", "Monthly Interest", "Term", "Monthly Payment", "Total Monthly Payment",
			"Payments Made", "Due Date", "Date Approved",
		},
		Widths: map[int]float64{0: 38, 2: 28},
	}
	for _, l := range loans {
		sh.Rows = append(sh.Rows, []any{
			l.TransactionID, l.MemberID, l.MemberName, l.LoanType, l.Amount, l.OutstandingBalance,
			l.InterestRate, l.Interest, l.Term, l.MonthlyPayment, l.TotalMonthlyPayment,
			l.PaymentsMade, formatDate(l.DueDate), formatDate(l.DateApproved),
		})
	}
	return []export.Sheet{sh}, nil
}

func (s *exportService) applicationSheet(ctx context.Context, kind models.RequestKind) ([]export.Sheet, error) {
	apps, err := s.requests.ListApplications(ctx, kind, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	headers := []string{"Transaction ID", "Member ID", "Member Name", "Amount", "Method", "Account Name", "Account Number", "Date Applied", "Date Approved", "Approved By"}
	if kind == models.KindPayment {
		headers = append(headers, "Interest Paid", "Penalty Paid", "Principal Paid")
	}
	sh := export.Sheet{
		Name:    "Approved " + strings.ToUpper(string(kind[:1])) + string(kind[1:]),
		Headers: headers,
		Widths:  map[int]float64{0: 38, 2: 28},
	}
	for _, a := range apps {
		processed := ""
		if a.DateProcessed != nil {
			processed = formatDate(*a.DateProcessed)
		}
		row := []any{
			a.TransactionID, a.MemberID, a.MemberName, a.Amount, a.Method, a.AccountName, a.AccountNumber,
			formatDate(a.DateApplied), processed, a.ProcessedBy,
		}
		if kind == models.KindPayment {
			row = append(row, a.InterestPaid, a.PenaltyPaid, a.PrincipalPaid)
		}
		sh.Rows = append(sh.Rows, row)
	}
	return []export.Sheet{sh}, nil
}

// transactionSheets renders one sheet per transaction type.
func (s *exportService) transactionSheets(ctx context.Context) ([]export.Sheet, error) {
	sheets := make([]export.Sheet, 0, len(models.TransactionTypes))
	for _, txType := range models.TransactionTypes {
		txs, err := s.transactions.ListTransactions(ctx, txType)
		if err != nil {
			return nil, err
		}
		sh := export.Sheet{
			Name:    txType,
			Headers: []string{"Transaction ID", "Member ID", "Amount", "Interest Paid", "Penalty Paid", "Principal Paid", "Status", "Description", "Date"},
			Widths:  map[int]float64{0: 38, 7: 40},
		}
		for _, tx := range txs {
			sh.Rows = append(sh.Rows, []any{
				tx.TransactionID, tx.MemberID, tx.Amount, tx.InterestPaid, tx.PenaltyPaid, tx.PrincipalPaid,
				tx.Status, tx.Description, formatDate(tx.Date),
			})
		}
		sheets = append(sheets, sh)
	}
	return sheets, nil
}

func (s *exportService) dividendSheet(ctx context.Context, year int) ([]export.Sheet, error) {
	preview, err := s.dividends.Preview(ctx, year, nil)
	if err != nil {
		return nil, err
	}
	sh := export.Sheet{
		Name: "Dividends",
		Headers: []string{
			"Member ID", "Name", "Investment", "Patronage", "Active Months",
			"Investment Share", "Patronage Share", "Active Months Share", "Total",
		},
		Widths: map[int]float64{1: 28},
	}
	for _, m := range preview.Members {
		sh.Rows = append(sh.Rows, []any{
			m.MemberID, m.Name, m.Investment, m.Patronage, m.ActiveMonths,
			m.InvestmentShare, m.PatronageShare, m.ActiveMonthsShare, m.Total,
		})
	}
	sh.Rows = append(sh.Rows,
		[]any{},
		[]any{"Pool", "", preview.Pool},
		[]any{"Members Pool", "", preview.MembersPool},
		[]any{"5KI Share", "", preview.FiveKIShare},
		[]any{"Undistributed", "", preview.Undistributed},
	)
	return []export.Sheet{sh}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
