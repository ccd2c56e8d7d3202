package app

import (
	"tlh_backend/internal/logger"
)

// LogEmailSender stands in for SMTP in environments without mail
// configuration. It logs the would-be delivery and succeeds.
type LogEmailSender struct{}

func (s *LogEmailSender) SendReviewVerification(to, chefName, verifyURL string) error {
	logger.Info("[email:mock] review verification", "to", to, "chef", chefName, "url", verifyURL)
	return nil
}

func (s *LogEmailSender) SendApplicationApproved(to, applicantName, profileURL string) error {
	logger.Info("[email:mock] application approved", "to", to, "applicant", applicantName, "url", profileURL)
	return nil
}

func (s *LogEmailSender) SendApplicationRejected(to, applicantName, reason string) error {
	logger.Info("[email:mock] application rejected", "to", to, "applicant", applicantName, "reason", reason)
	return nil
}
