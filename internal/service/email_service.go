package service

import (
	"context"
	"fmt"
)

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type EmailService interface {
	Send(ctx context.Context, e Email) error
}

// OnboardingEmail renders the message that carries a signup code.
func OnboardingEmail(to, code, verifyURL string) Email {
	return Email{
		To:      to,
		Subject: "Welcome to Wicki!",
		Text: fmt.Sprintf("Here's your verification code: %s\n\nOr click the link to get started: %s\n",
			code, verifyURL),
		HTML: fmt.Sprintf(`<p>Here's your verification code: <strong>%s</strong></p><p>Or click the link to get started: <a href="%s">%s</a></p>`,
			code, verifyURL, verifyURL),
	}
}
