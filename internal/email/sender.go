package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	config Config
	dialer *gomail.Dialer
}

func NewSMTPSender(config Config) (*SMTPSender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}, nil
}

func (s *SMTPSender) send(to, subject, templateName string, data interface{}) error {
	html, err := render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) SendReviewVerification(to, chefName, verifyURL string) error {
	return s.send(to, "Confirm your review", "review_verification", map[string]string{
		"ChefName":  chefName,
		"VerifyURL": verifyURL,
	})
}

func (s *SMTPSender) SendApplicationApproved(to, applicantName, profileURL string) error {
	return s.send(to, "Your chef profile is live!", "application_approved", map[string]string{
		"ApplicantName": applicantName,
		"ProfileURL":    profileURL,
	})
}

func (s *SMTPSender) SendApplicationRejected(to, applicantName, reason string) error {
	return s.send(to, "About your chef application", "application_rejected", map[string]string{
		"ApplicantName": applicantName,
		"Reason":        reason,
	})
}
