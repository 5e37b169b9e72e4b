package domain

import "time"

// AdminSessionTTL is the inactivity window after which an admin session is
// considered expired.
const AdminSessionTTL = 24 * time.Hour

// AdminSession tracks an admin panel login.
type AdminSession struct {
	Email        string    `json:"email"`
	AutoLogin    bool      `json:"auto_login"`
	LastActivity time.Time `json:"last_activity"`
}

// Expired reports whether the session's last activity is older than the
// 24-hour inactivity window at the given instant.
func (s AdminSession) Expired(now time.Time) bool {
	return now.Sub(s.LastActivity) > AdminSessionTTL
}
