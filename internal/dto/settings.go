package dto

const (
	IntentUpdateProfile = "update-profile"
	IntentDeleteData    = "delete-data"
)

type ProfileRequest struct {
	Email    string `json:"email" validate:"required,min=3,max=100,email"`
	Username string `json:"username" validate:"required,username"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required,min=6,max=100"`
	NewPassword        string `json:"newPassword" validate:"required,min=6,max=100"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=system light dark"`
}
