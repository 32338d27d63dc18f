package events

import "time"

const (
	ActionLogin  = "session.login"
	ActionLogout = "session.logout"
)

type SessionCreated struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Rehashed  bool      `json:"passwordRehashed,omitempty"`
	At        time.Time `json:"at"`
}

type SessionRevoked struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	At        time.Time `json:"at"`
}
