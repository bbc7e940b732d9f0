package dto

type DividendPreview struct {
	Year              int              `json:"year"`
	Pool              float64          `json:"pool"`
	MembersPool       float64          `json:"membersPool"`
	FiveKIShare       float64          `json:"fiveKIShare"`
	InvestmentPool    float64          `json:"investmentPool"`
	PatronagePool     float64          `json:"patronagePool"`
	ActiveMonthsPool  float64          `json:"activeMonthsPool"`
	TotalInvestment   float64          `json:"totalInvestment"`
	TotalPatronage    float64          `json:"totalPatronage"`
	TotalActiveMonths int              `json:"totalActiveMonths"`
	Distributed       float64          `json:"distributed"`
	Undistributed     float64          `json:"undistributed"`
	Members           []MemberDividend `json:"members"`
}

type MemberDividend struct {
	MemberID          string  `json:"memberId"`
	Name              string  `json:"name"`
	Investment        float64 `json:"investment"`
	Patronage         float64 `json:"patronage"`
	ActiveMonths      int     `json:"activeMonths"`
	InvestmentShare   float64 `json:"investmentShare"`
	PatronageShare    float64 `json:"patronageShare"`
	ActiveMonthsShare float64 `json:"activeMonthsShare"`
	Total             float64 `json:"total"`
}
