package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

// DividendConfig mirrors the dividend block of Settings.
type DividendConfig struct {
	MembersPercent      decimal.Decimal
	FiveKIPercent       decimal.Decimal
	InvestmentPercent   decimal.Decimal
	PatronagePercent    decimal.Decimal
	ActiveMonthsPercent decimal.Decimal
}

func (c DividendConfig) Validate() error {
	if err := ValidateSplit("dividend distribution", c.MembersPercent, c.FiveKIPercent); err != nil {
		return err
	}
	return ValidateSplit("members dividend breakdown", c.InvestmentPercent, c.PatronagePercent, c.ActiveMonthsPercent)
}

type MemberBasis struct {
	MemberID     string
	Name         string
	Investment   decimal.Decimal
	Patronage    decimal.Decimal
	ActiveMonths int
}

type MemberShare struct {
	MemberBasis
	InvestmentShare   decimal.Decimal
	PatronageShare    decimal.Decimal
	ActiveMonthsShare decimal.Decimal
	Total             decimal.Decimal
}

type DividendPlan struct {
	Pool              decimal.Decimal
	MembersPool       decimal.Decimal
	FiveKIShare       decimal.Decimal
	InvestmentPool    decimal.Decimal
	PatronagePool     decimal.Decimal
	ActiveMonthsPool  decimal.Decimal
	TotalInvestment   decimal.Decimal
	TotalPatronage    decimal.Decimal
	TotalActiveMonths int
	Distributed       decimal.Decimal
	Undistributed     decimal.Decimal
	Members           []MemberShare
}

// PlanDividends splits pool between the cooperative and its members, then
// splits the members' pool by investment, patronage and active months.
// Member shares are truncated to the centavo so the plan never pays out
// more than the members' pool; the residue is reported as Undistributed.
func PlanDividends(pool decimal.Decimal, cfg DividendConfig, members []MemberBasis) (DividendPlan, error) {
	if pool.IsNegative() {
		return DividendPlan{}, errs.NewValidationError("dividend pool cannot be negative")
	}
	if err := cfg.Validate(); err != nil {
		return DividendPlan{}, err
	}

	plan := DividendPlan{Pool: Money(pool)}
	plan.MembersPool = Money(Percent(plan.Pool, cfg.MembersPercent))
	plan.FiveKIShare = plan.Pool.Sub(plan.MembersPool)
	plan.InvestmentPool = Money(Percent(plan.MembersPool, cfg.InvestmentPercent))
	plan.PatronagePool = Money(Percent(plan.MembersPool, cfg.PatronagePercent))
	plan.ActiveMonthsPool = Money(Percent(plan.MembersPool, cfg.ActiveMonthsPercent))

	for _, m := range members {
		if m.Investment.IsNegative() || m.Patronage.IsNegative() {
			return DividendPlan{}, errs.NewValidationError(fmt.Sprintf("member %s has a negative dividend basis", m.MemberID))
		}
		if m.ActiveMonths < 0 || m.ActiveMonths > 12 {
			return DividendPlan{}, errs.NewValidationError(fmt.Sprintf("member %s active months must be between 0 and 12", m.MemberID))
		}
		plan.TotalInvestment = plan.TotalInvestment.Add(m.Investment)
		plan.TotalPatronage = plan.TotalPatronage.Add(m.Patronage)
		plan.TotalActiveMonths += m.ActiveMonths
	}
	totalMonths := decimal.NewFromInt(int64(plan.TotalActiveMonths))

	plan.Members = make([]MemberShare, 0, len(members))
	for _, m := range members {
		share := MemberShare{
			MemberBasis:       m,
			InvestmentShare:   weighted(plan.InvestmentPool, m.Investment, plan.TotalInvestment),
			PatronageShare:    weighted(plan.PatronagePool, m.Patronage, plan.TotalPatronage),
			ActiveMonthsShare: weighted(plan.ActiveMonthsPool, decimal.NewFromInt(int64(m.ActiveMonths)), totalMonths),
		}
		share.Total = share.InvestmentShare.Add(share.PatronageShare).Add(share.ActiveMonthsShare)
		plan.Distributed = plan.Distributed.Add(share.Total)
		plan.Members = append(plan.Members, share)
	}
	plan.Undistributed = plan.MembersPool.Sub(plan.Distributed)
	return plan, nil
}

// weighted returns pool × part/total truncated to centavos; a zero total
// allocates nothing.
func weighted(pool, part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() || part.IsZero() {
		return decimal.Zero
	}
	return pool.Mul(part).Div(total).Truncate(2)
}
