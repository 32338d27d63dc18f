package dto

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeResponse is the root data for every page: the optional current user and
// the theme preference.
type MeResponse struct {
	User  *CurrentUser `json:"user"`
	Theme string       `json:"theme"`
}

type CurrentUser struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type UserDataExport struct {
	User  ProfileResponse `json:"user"`
	Roles []string        `json:"roles"`
	Posts []PostResponse  `json:"posts"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Detail string              `json:"detail,omitempty"`
}
