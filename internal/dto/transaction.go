package dto

import "github.com/GregMSThompson/coop-backend/internal/models"

// MemberHistory groups a member's transaction log by type.
type MemberHistory struct {
	MemberID     string                          `json:"memberId"`
	Transactions map[string][]models.Transaction `json:"transactions"`
}
