// Package finance holds the cooperative's money arithmetic: percentage
// splits, dividend allocation, loan terms and penalties. Everything works
// on decimal.Decimal and rounds to centavos at the edges.
package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

var (
	hundred = decimal.NewFromInt(100)
	thirty  = decimal.NewFromInt(30)
)

// Money rounds to two decimal places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns value × pct / 100.
func Percent(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Div(hundred)
}

// ValidateSplit checks that every part lies in [0,100] and that the parts
// add up to exactly 100.
func ValidateSplit(label string, parts ...decimal.Decimal) error {
	total := decimal.Zero
	for _, p := range parts {
		if p.IsNegative() || p.GreaterThan(hundred) {
			return errs.NewValidationError(fmt.Sprintf("%s percentages must be between 0 and 100", label))
		}
		total = total.Add(p)
	}
	if !total.Equal(hundred) {
		return errs.NewValidationError(fmt.Sprintf("%s percentages must total 100%%, got %s%%", label, total.String()))
	}
	return nil
}
