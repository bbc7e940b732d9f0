package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/internal/store"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type memberLister interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
}

type transactionLister interface {
	ListTransactions(ctx context.Context, txType string) ([]models.Transaction, error)
}

type dividendStore interface {
	GetDividend(ctx context.Context, year int) (*models.DividendRecord, error)
	Apply(ctx context.Context, b *store.Batch) error
}

// activityTypes count toward a member's active months.
var activityTypes = []string{models.TxDeposits, models.TxWithdrawals, models.TxLoans, models.TxPayments}

type dividendService struct {
	members      memberLister
	settings     settingsReader
	transactions transactionLister
	store        dividendStore
	clockNow     func() time.Time
}

func NewDividendService(members memberLister, settings settingsReader, transactions transactionLister, store dividendStore) *dividendService {
	return &dividendService{
		members:      members,
		settings:     settings,
		transactions: transactions,
		store:        store,
		clockNow:     utcNow,
	}
}

// Preview computes the year's allocation without writing anything. pool
// defaults to the undistributed Yields in Settings.
func (s *dividendService) Preview(ctx context.Context, year int, pool *float64) (dto.DividendPreview, error) {
	plan, _, err := s.plan(ctx, year, pool)
	if err != nil {
		return dto.DividendPreview{}, err
	}
	return previewFromPlan(year, plan), nil
}

func (s *dividendService) plan(ctx context.Context, year int, pool *float64) (finance.DividendPlan, *models.Settings, error) {
	if year < 2000 || year > s.clockNow().Year() {
		return finance.DividendPlan{}, nil, errs.NewValidationError(fmt.Sprintf("year must be between 2000 and %d", s.clockNow().Year()))
	}

	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return finance.DividendPlan{}, nil, err
	}
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return finance.DividendPlan{}, nil, err
	}

	patronage := map[string]decimal.Decimal{}
	payments, err := s.transactions.ListTransactions(ctx, models.TxPayments)
	if err != nil {
		return finance.DividendPlan{}, nil, err
	}
	for _, tx := range payments {
		if tx.Date.Year() == year {
			patronage[tx.MemberID] = patronage[tx.MemberID].Add(dec(tx.InterestPaid))
		}
	}

	months := map[string]map[time.Month]bool{}
	for _, txType := range activityTypes {
		txs := payments
		if txType != models.TxPayments {
			if txs, err = s.transactions.ListTransactions(ctx, txType); err != nil {
				return finance.DividendPlan{}, nil, err
			}
		}
		for _, tx := range txs {
			if tx.Date.Year() != year {
				continue
			}
			if months[tx.MemberID] == nil {
				months[tx.MemberID] = map[time.Month]bool{}
			}
			months[tx.MemberID][tx.Date.Month()] = true
		}
	}

	basis := make([]finance.MemberBasis, 0, len(members))
	for _, m := range members {
		if !m.IsActive() {
			continue
		}
		basis = append(basis, finance.MemberBasis{
			MemberID:     m.ID,
			Name:         m.FullName(),
			Investment:   dec(m.Investment),
			Patronage:    patronage[m.ID],
			ActiveMonths: len(months[m.ID]),
		})
	}

	amount := dec(st.Yields)
	if pool != nil {
		amount = dec(*pool)
	}
	plan, err := finance.PlanDividends(amount, dividendConfig(st), basis)
	if err != nil {
		return finance.DividendPlan{}, nil, err
	}
	return plan, st, nil
}

// Record returns a year's completed distribution.
func (s *dividendService) Record(ctx context.Context, year int) (*models.DividendRecord, error) {
	return s.store.GetDividend(ctx, year)
}

// Distribute credits each member's share to their balance and records the
// year's distribution; a year is distributed at most once.
func (s *dividendService) Distribute(ctx context.Context, year int, by string) (*models.DividendRecord, error) {
	log, ctx := logger.With(ctx, "year", year)

	_, err := s.store.GetDividend(ctx, year)
	if err == nil {
		return nil, errs.NewAlreadyExistsError(fmt.Sprintf("dividends for %d were already distributed", year))
	}
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	plan, st, err := s.plan(ctx, year, nil)
	if err != nil {
		return nil, err
	}
	if !plan.Pool.IsPositive() {
		return nil, errs.NewConflictError("there are no yields to distribute")
	}
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]float64, len(members))
	for _, m := range members {
		balances[m.ID] = m.Balance
	}

	now := s.clockNow()
	rec := models.DividendRecord{
		Year:          year,
		Pool:          money(plan.Pool),
		MembersPool:   money(plan.MembersPool),
		FiveKIShare:   money(plan.FiveKIShare),
		Distributed:   money(plan.Distributed),
		Undistributed: money(plan.Undistributed),
		Shares:        map[string]float64{},
		DistributedAt: now,
		DistributedBy: by,
	}

	b := store.NewBatch()
	for _, share := range plan.Members {
		if !share.Total.IsPositive() {
			continue
		}
		rec.Shares[share.MemberID] = money(share.Total)
		rec.MemberCount++
		b.MemberBalance(share.MemberID, money(dec(balances[share.MemberID]).Add(share.Total)), now).
			AddTransaction(models.Transaction{
				TransactionID: fmt.Sprintf("dividend-%d", year),
				MemberID:      share.MemberID,
				Type:          models.TxDividends,
				Amount:        money(share.Total),
				Status:        models.StatusApproved,
				Description:   fmt.Sprintf("%d dividend", year),
				Date:          now,
			})
	}

	spent := plan.Distributed.Add(plan.FiveKIShare)
	b.PutDividend(rec).
		SettingsField("Yields", money(decimal.Max(decimal.Zero, dec(st.Yields).Sub(spent)))).
		SettingsField("Savings", money(dec(st.Savings).Add(plan.Distributed)))

	if err := s.store.Apply(ctx, b); err != nil {
		log.Error("failed to record dividend distribution", "error", err)
		return nil, err
	}

	log.Info("dividends distributed", "members", rec.MemberCount, "distributed", rec.Distributed)
	return &rec, nil
}

func dividendConfig(st *models.Settings) finance.DividendConfig {
	return finance.DividendConfig{
		MembersPercent:      dec(st.DividendDistribution.Members),
		FiveKIPercent:       dec(st.DividendDistribution.FiveKI),
		InvestmentPercent:   dec(st.MembersDividendBreakdown.Investment),
		PatronagePercent:    dec(st.MembersDividendBreakdown.Patronage),
		ActiveMonthsPercent: dec(st.MembersDividendBreakdown.ActiveMonths),
	}
}

func previewFromPlan(year int, plan finance.DividendPlan) dto.DividendPreview {
	out := dto.DividendPreview{
		Year:              year,
		Pool:              money(plan.Pool),
		MembersPool:       money(plan.MembersPool),
		FiveKIShare:       money(plan.FiveKIShare),
		InvestmentPool:    money(plan.InvestmentPool),
		PatronagePool:     money(plan.PatronagePool),
		ActiveMonthsPool:  money(plan.ActiveMonthsPool),
		TotalInvestment:   money(plan.TotalInvestment),
		TotalPatronage:    money(plan.TotalPatronage),
		TotalActiveMonths: plan.TotalActiveMonths,
		Distributed:       money(plan.Distributed),
		Undistributed:     money(plan.Undistributed),
		Members:           make([]dto.MemberDividend, 0, len(plan.Members)),
	}
	for _, m := range plan.Members {
		out.Members = append(out.Members, dto.MemberDividend{
			MemberID:          m.MemberID,
			Name:              m.Name,
			Investment:        money(m.Investment),
			Patronage:         money(m.Patronage),
			ActiveMonths:      m.ActiveMonths,
			InvestmentShare:   money(m.InvestmentShare),
			PatronageShare:    money(m.PatronageShare),
			ActiveMonthsShare: money(m.ActiveMonthsShare),
			Total:             money(m.Total),
		})
	}
	return out
}
