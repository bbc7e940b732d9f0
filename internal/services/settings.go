package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/coop-backend/internal/dto"
	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/finance"
	"github.com/GregMSThompson/coop-backend/internal/models"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type settingsStore interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, fields map[string]any) error
}

type settingsService struct {
	store    settingsStore
	validate structValidator
	clockNow func() time.Time
}

func NewSettingsService(store settingsStore, validate structValidator) *settingsService {
	return &settingsService{store: store, validate: validate, clockNow: utcNow}
}

func (s *settingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings merges the provided sections and saves only those keys.
// Percentage splits must each total exactly 100.
func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, by string) (*models.Settings, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	st, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Funds != nil {
		st.Funds = *req.Funds
		fields["Funds"] = st.Funds
	}
	if req.Savings != nil {
		st.Savings = *req.Savings
		fields["Savings"] = st.Savings
	}
	if req.LoanTypes != nil {
		types := make([]string, 0, len(req.LoanTypes))
		for _, t := range req.LoanTypes {
			if t = strings.TrimSpace(t); t == "" {
				return nil, errs.NewValidationError("loan type names cannot be empty")
			}
			types = append(types, t)
		}
		st.LoanTypes = types
		fields["LoanTypes"] = types
	}
	if req.InterestRateByType != nil {
		for name := range req.InterestRateByType {
			if strings.TrimSpace(name) == "" {
				return nil, errs.NewValidationError("loan type names cannot be empty")
			}
		}
		st.InterestRateByType = req.InterestRateByType
		fields["InterestRateByType"] = req.InterestRateByType
	}
	if req.LoanTerms != nil {
		st.LoanTerms = req.LoanTerms
		fields["LoanTerms"] = req.LoanTerms
	}
	if req.DividendDistribution != nil {
		d := models.DividendDistribution(*req.DividendDistribution)
		if err := finance.ValidateSplit("dividend distribution", dec(d.Members), dec(d.FiveKI)); err != nil {
			return nil, err
		}
		st.DividendDistribution = d
		fields["DividendDistribution"] = d
	}
	if req.MembersDividendBreakdown != nil {
		d := models.MembersDividendBreakdown(*req.MembersDividendBreakdown)
		if err := finance.ValidateSplit("members dividend breakdown", dec(d.Investment), dec(d.Patronage), dec(d.ActiveMonths)); err != nil {
			return nil, err
		}
		st.MembersDividendBreakdown = d
		fields["MembersDividendBreakdown"] = d
	}
	setText := func(key string, v *string, dst *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			fields[key] = *dst
		}
	}
	setText("OrientationCode", req.OrientationCode, &st.OrientationCode)
	setText("TermsAndConditions", req.TermsAndConditions, &st.TermsAndConditions)
	setText("PrivacyPolicy", req.PrivacyPolicy, &st.PrivacyPolicy)
	setText("AboutUs", req.AboutUs, &st.AboutUs)

	if len(fields) == 0 {
		return nil, errs.NewValidationError("no settings to update")
	}
	for _, t := range st.LoanTypes {
		if _, ok := st.InterestRateByType[t]; !ok {
			return nil, errs.NewValidationError("loan type " + t + " has no interest rate")
		}
	}

	st.UpdatedAt = s.clockNow()
	st.UpdatedBy = by
	fields["UpdatedAt"] = st.UpdatedAt
	fields["UpdatedBy"] = by

	if err := s.store.UpdateSettings(ctx, fields); err != nil {
		log.Error("failed to update settings", "error", err)
		return nil, err
	}

	log.Info("settings updated", "keys", len(fields)-2)
	return st, nil
}
