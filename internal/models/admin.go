package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleCoAdmin = "coadmin"
	RoleMember  = "member"
)

type Admin struct {
	ID            string `json:"id"`
	UID           string `json:"uid"`
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Role          string `json:"role"`
	// InitialPassword is KMS ciphertext when InitialPasswordEncrypted is set.
	InitialPassword          string    `json:"initialPassword,omitempty"`
	InitialPasswordEncrypted bool      `json:"initialPasswordEncrypted,omitempty"`
	DateAdded                time.Time `json:"dateAdded"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

func (a *Admin) FullName() string {
	return joinName(a.FirstName, a.MiddleName, a.LastName)
}
