package events

import "time"

const (
	ActionSignup          = "user.signup"
	ActionProfileUpdated  = "user.profile_updated"
	ActionPasswordChanged = "user.password_changed"
	ActionDataDeleted     = "user.data_deleted"
)

type UserSignedUp struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	RoleSet  bool      `json:"roleAssigned"`
	At       time.Time `json:"at"`
}

type ProfileUpdated struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

type PasswordChanged struct {
	UserID          string    `json:"userId"`
	SessionsRevoked int64     `json:"sessionsRevoked"`
	At              time.Time `json:"at"`
}

type UserDataDeleted struct {
	UserID  string           `json:"userId"`
	Deleted map[string]int64 `json:"deleted"`
	At      time.Time        `json:"at"`
}
