package entity

import "time"

// Session is the time-bounded proof of authentication. Lifetime is absolute:
// ExpiresAt = IssuedAt + session timeout, no idle renewal.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
