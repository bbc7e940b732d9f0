package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type dashboardMembers interface {
	GetMember(ctx context.Context, id string) (*models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
}

type dashboardLoans interface {
	ListCurrentLoans(ctx context.Context) ([]models.Loan, error)
	ListMemberCurrentLoans(ctx context.Context, memberID string) ([]models.Loan, error)
}

type pendingRequests interface {
	ListApplications(ctx context.Context, kind models.RequestKind, status string) ([]models.Application, error)
	ListMemberApplications(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error)
}

type pendingRegistrations interface {
	ListRegistrations(ctx context.Context, status string) ([]models.Registration, error)
}

type dashboardTransactions interface {
	ListTransactions(ctx context.Context, txType string) ([]models.Transaction, error)
	ListMemberTransactions(ctx context.Context, memberID, txType string) ([]models.Transaction, error)
}

var requestKinds = []models.RequestKind{models.KindDeposit, models.KindWithdrawal, models.KindPayment, models.KindLoan}

// dashboardService aggregates the figures shown on the admin dashboard
// and handed to the assistant.
type dashboardService struct {
	members       dashboardMembers
	settings      settingsReader
	loans         dashboardLoans
	requests      pendingRequests
	registrations pendingRegistrations
	transactions  dashboardTransactions
	clockNow      func() time.Time
}

func NewDashboardService(
	members dashboardMembers,
	settings settingsReader,
	loans dashboardLoans,
	requests pendingRequests,
	registrations pendingRegistrations,
	transactions dashboardTransactions,
) *dashboardService {
	return &dashboardService{
		members:       members,
		settings:      settings,
		loans:         loans,
		requests:      requests,
		registrations: registrations,
		transactions:  transactions,
		clockNow:      utcNow,
	}
}

func (s *dashboardService) Summary(ctx context.Context, year int) (dto.DashboardSummary, error) {
	now := s.clockNow()
	if year == 0 {
		year = now.Year()
	}
	out := dto.DashboardSummary{Year: year, PendingRequests: map[string]int{}}

	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return out, err
	}
	out.Members.Total = len(members)
	for _, m := range members {
		if m.IsActive() {
			out.Members.Active++
		} else {
			out.Members.Inactive++
		}
	}

	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return out, err
	}
	out.Funds, out.Savings, out.Yields = st.Funds, st.Savings, st.Yields

	loans, err := s.loans.ListCurrentLoans(ctx)
	if err != nil {
		return out, err
	}
	outstanding := decimal.Zero
	for _, l := range loans {
		outstanding = outstanding.Add(dec(l.OutstandingBalance))
		if finance.OverdueDays(l.DueDate, now) > 0 {
			out.Loans.Overdue++
		}
	}
	out.Loans.Current = len(loans)
	out.Loans.Outstanding = money(outstanding)

	for _, kind := range requestKinds {
		pending, err := s.requests.ListApplications(ctx, kind, models.StatusPending)
		if err != nil {
			return out, err
		}
		out.PendingRequests[string(kind)] = len(pending)
	}
	regs, err := s.registrations.ListRegistrations(ctx, models.StatusPending)
	if err != nil {
		return out, err
	}
	out.PendingRequests["registrations"] = len(regs)

	out.Monthly, err = s.monthly(ctx, year)
	if err != nil {
		return out, err
	}
	return out, nil
}

func (s *dashboardService) monthly(ctx context.Context, year int) ([]dto.MonthlyPoint, error) {
	totals := make([][4]decimal.Decimal, 12)
	for i, txType := range []string{models.TxDeposits, models.TxWithdrawals, models.TxLoans, models.TxPayments} {
		txs, err := s.transactions.ListTransactions(ctx, txType)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			if tx.Date.Year() != year {
				continue
			}
			m := tx.Date.Month() - 1
			totals[m][i] = totals[m][i].Add(dec(tx.Amount))
		}
	}

	out := make([]dto.MonthlyPoint, 12)
	for m := range out {
		out[m] = dto.MonthlyPoint{
			Month:       m + 1,
			Deposits:    money(totals[m][0]),
			Withdrawals: money(totals[m][1]),
			Loans:       money(totals[m][2]),
			Payments:    money(totals[m][3]),
		}
	}
	return out, nil
}

func (s *dashboardService) MemberSummary(ctx context.Context, memberID string) (dto.MemberSummary, error) {
	m, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return dto.MemberSummary{}, err
	}
	out := dto.MemberSummary{
		MemberID:        m.ID,
		Name:            m.FullName(),
		Status:          m.Status,
		Balance:         m.Balance,
		Investment:      m.Investment,
		CurrentLoans:    []dto.LoanSnapshot{},
		PendingRequests: map[string]int{},
		TotalsByType:    map[string]float64{},
	}

	loans, err := s.loans.ListMemberCurrentLoans(ctx, memberID)
	if err != nil {
		return out, err
	}
	now := s.clockNow()
	for _, l := range loans {
		out.CurrentLoans = append(out.CurrentLoans, snapshot(l, now))
	}

	for _, kind := range requestKinds {
		pending, err := s.requests.ListMemberApplications(ctx, kind, models.StatusPending, memberID)
		if err != nil {
			return out, err
		}
		out.PendingRequests[string(kind)] = len(pending)
	}

	for _, txType := range models.TransactionTypes {
		txs, err := s.transactions.ListMemberTransactions(ctx, memberID, txType)
		if err != nil {
			return out, err
		}
		total := decimal.Zero
		for _, tx := range txs {
			total = total.Add(dec(tx.Amount))
		}
		out.TotalsByType[txType] = money(total)
		out.TransactionCount += len(txs)
	}
	return out, nil
}

// OverdueLoans lists current loans past due, most overdue first.
func (s *dashboardService) OverdueLoans(ctx context.Context, limit int) ([]dto.LoanSnapshot, error) {
	loans, err := s.loans.ListCurrentLoans(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clockNow()
	out := []dto.LoanSnapshot{}
	for _, l := range loans {
		if snap := snapshot(l, now); snap.OverdueDays > 0 {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OverdueDays > out[j].OverdueDays })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func snapshot(l models.Loan, now time.Time) dto.LoanSnapshot {
	penalty, days := finance.Penalty(dec(l.Interest), l.DueDate, now)
	return dto.LoanSnapshot{
		TransactionID:      l.TransactionID,
		MemberID:           l.MemberID,
		MemberName:         l.MemberName,
		LoanType:           l.LoanType,
		Amount:             l.Amount,
		OutstandingBalance: l.OutstandingBalance,
		DueDate:            l.DueDate.Format(dateLayout),
		OverdueDays:        days,
		Penalty:            money(penalty),
	}
}
