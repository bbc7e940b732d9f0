package dto

type UpdateSettingsRequest struct {
	Funds   *float64 `json:"Funds" validate:"omitempty,gte=0"`
	Savings *float64 `json:"Savings" validate:"omitempty,gte=0"`

	InterestRateByType map[string]float64 `json:"InterestRateByType" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=100"`
	LoanTypes          []string           `json:"LoanTypes" validate:"omitempty,dive,required"`
	LoanTerms          []int              `json:"LoanTerms" validate:"omitempty,dive,gt=0,lte=60"`

	DividendDistribution     *DividendDistribution     `json:"DividendDistribution"`
	MembersDividendBreakdown *MembersDividendBreakdown `json:"MembersDividendBreakdown"`

	OrientationCode    *string `json:"OrientationCode" validate:"omitempty,orientationcode"`
	TermsAndConditions *string `json:"TermsAndConditions"`
	PrivacyPolicy      *string `json:"PrivacyPolicy"`
	AboutUs            *string `json:"AboutUs"`
}

type DividendDistribution struct {
	Members float64 `json:"Members"`
	FiveKI  float64 `json:"5KI"`
}

type MembersDividendBreakdown struct {
	Investment   float64 `json:"Investment"`
	Patronage    float64 `json:"Patronage"`
	ActiveMonths float64 `json:"ActiveMonths"`
}
