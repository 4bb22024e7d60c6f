package dto

import "time"

// LoginResponse is returned after a successful admin login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Session   SessionInfo `json:"session"`
}

// SessionInfo describes the authenticated admin session.
type SessionInfo struct {
	SessionID string    `json:"sessionId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
