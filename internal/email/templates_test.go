package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ReviewVerification(t *testing.T) {
	html, err := render("review_verification", map[string]string{
		"ChefName":  "Chef Reza",
		"VerifyURL": "https://api.test/api/verify-review?token=abc",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Chef Reza")
	assert.Contains(t, html, "token=abc")
	assert.Contains(t, html, "24 hours")
}

func TestRender_ApplicationApproved(t *testing.T) {
	html, err := render("application_approved", map[string]string{
		"ApplicantName": "Maryam",
		"ProfileURL":    "https://tlh.example/chef/abc",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Maryam")
	assert.Contains(t, html, "https://tlh.example/chef/abc")
	// Approval precedes publication; the mail must not claim the profile
	// is already visible.
	assert.Contains(t, html, "publish it shortly")
	assert.NotContains(t, html, "now live")
}

func TestRender_ApplicationRejectedReasonOptional(t *testing.T) {
	withReason, err := render("application_rejected", map[string]string{
		"ApplicantName": "Maryam",
		"Reason":        "No dish photos",
	})
	require.NoError(t, err)
	assert.Contains(t, withReason, "No dish photos")

	without, err := render("application_rejected", map[string]string{
		"ApplicantName": "Maryam",
	})
	require.NoError(t, err)
	assert.NotContains(t, without, "Note from our team")
}
