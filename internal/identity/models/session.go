package models

import (
	"time"

	id "hotelchain/pkg/domain"
)

// Session is a logged-in browser.
type Session struct {
	ID        id.SessionID `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	Name      string       `json:"name"`
	Role      id.Role      `json:"role"`
	BranchID  *id.BranchID `json:"branch_id,omitempty"`
	CSRFToken string       `json:"csrf_token"`
	Device    string       `json:"device"`
	IPAddress string       `json:"ip_address,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsExpired reports whether the session has lapsed at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
