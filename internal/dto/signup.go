package dto

type SignupRequest struct {
	Email string `json:"email" validate:"required,min=3,max=100,email"`
}

type VerifyRequest struct {
	Code       string `json:"code" validate:"required,len=6,number"`
	Type       string `json:"type" validate:"required,oneof=onboarding"`
	Target     string `json:"target" validate:"required"`
	RedirectTo string `json:"redirectTo"`
}

type OnboardingRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTermsOfServiceAndPrivacyPolicy" validate:"required"`
	Remember        bool   `json:"remember"`
	RedirectTo      string `json:"redirectTo"`
}
