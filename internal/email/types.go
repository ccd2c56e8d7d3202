package email

import "fmt"

// Config holds SMTP settings loaded from the application config.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// Sender is the outbound email surface the services depend on. Implemented
// by the SMTP sender in production and by a recorder in tests.
type Sender interface {
	// SendReviewVerification delivers the verify-your-review link.
	SendReviewVerification(to, chefName, verifyURL string) error

	// SendApplicationApproved congratulates an approved applicant.
	SendApplicationApproved(to, applicantName, profileURL string) error

	// SendApplicationRejected notifies a rejected applicant, with an
	// optional reason.
	SendApplicationRejected(to, applicantName, reason string) error
}
