package entity

import "time"

// OAuthState is a one-time CSRF token for the Google OAuth flow.
type OAuthState struct {
	State     string    `db:"state"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
