package models

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Member struct {
	ID            string    `json:"id"`
	UID           string    `json:"uid,omitempty"` // Firebase Auth uid
	FirstName     string    `json:"firstName"`
	MiddleName    string    `json:"middleName,omitempty"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address,omitempty"`
	Balance       float64   `json:"balance"`
	Investment    float64   `json:"investment"`
	Status        string    `json:"status"`
	DateAdded     time.Time `json:"dateAdded"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (m *Member) FullName() string {
	return joinName(m.FirstName, m.MiddleName, m.LastName)
}

func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

type Registration struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	MiddleName      string     `json:"middleName,omitempty"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	ContactNumber   string     `json:"contactNumber"`
	Address         string     `json:"address,omitempty"`
	Investment      float64    `json:"investment"` // initial share capital
	OrientationCode string     `json:"orientationCode,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	MemberID        string     `json:"memberId,omitempty"`
	DateApplied     time.Time  `json:"dateApplied"`
	DateProcessed   *time.Time `json:"dateProcessed,omitempty"`
	ProcessedBy     string     `json:"processedBy,omitempty"`
}

func (r *Registration) FullName() string {
	return joinName(r.FirstName, r.MiddleName, r.LastName)
}

func joinName(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
