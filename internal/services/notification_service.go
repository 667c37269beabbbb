package services

import (
	"fmt"

	"windbooks_backend/internal/email"
)

// NotificationService formats and sends the account emails. Callers
// decide whether a failed send is fatal; this service only reports it.
type NotificationService interface {
	SendVerificationEmail(to, code string) error
	SendPasswordChangedEmail(to string) error
}

type notificationService struct {
	provider    email.Provider
	linkBaseURL string
	codeTTLMin  int
}

func NewNotificationService(provider email.Provider, linkBaseURL string, codeTTLMin int) NotificationService {
	return &notificationService{
		provider:    provider,
		linkBaseURL: linkBaseURL,
		codeTTLMin:  codeTTLMin,
	}
}

func (s *notificationService) SendVerificationEmail(to, code string) error {
	data := email.TemplateData{
		"VerificationURL": fmt.Sprintf("%s?code=%s", s.linkBaseURL, code),
		"TTLMinutes":      s.codeTTLMin,
	}
	return s.provider.SendWithTemplate(email.TemplateVerification, data, &email.Email{
		To:      []string{to},
		Subject: "Verify your email address",
	})
}

func (s *notificationService) SendPasswordChangedEmail(to string) error {
	return s.provider.SendWithTemplate(email.TemplatePasswordChanged, email.TemplateData{}, &email.Email{
		To:      []string{to},
		Subject: "Your password was changed",
	})
}
