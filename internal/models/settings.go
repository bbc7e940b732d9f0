package models

import "time"

// Settings is the singleton document of cooperative-wide parameters.
// Keys keep the capitalised names the dashboard and mobile app read.
type Settings struct {
	Funds   float64 `json:"Funds"`
	Savings float64 `json:"Savings"`
	Yields  float64 `json:"Yields"` // interest and penalty income not yet distributed

	InterestRateByType map[string]float64 `json:"InterestRateByType"` // percent per month
	LoanTypes          []string           `json:"LoanTypes"`
	LoanTerms          []int              `json:"LoanTerms"` // allowed terms in months

	DividendDistribution     DividendDistribution     `json:"DividendDistribution"`
	MembersDividendBreakdown MembersDividendBreakdown `json:"MembersDividendBreakdown"`

	OrientationCode    string    `json:"OrientationCode"`
	TermsAndConditions string    `json:"TermsAndConditions,omitempty"`
	PrivacyPolicy      string    `json:"PrivacyPolicy,omitempty"`
	AboutUs            string    `json:"AboutUs,omitempty"`
	UpdatedAt          time.Time `json:"UpdatedAt"`
	UpdatedBy          string    `json:"UpdatedBy,omitempty"`
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
