package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhatsAppLink(t *testing.T) {
	link := BuildWhatsAppLink("+49 176 1234-5678", "Sara", "Chef Reza", "a dinner party", "2026-09-12")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/4917612345678?text="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	msg := u.Query().Get("text")
	assert.Contains(t, msg, "Chef Reza")
	assert.Contains(t, msg, "Sara")
	assert.Contains(t, msg, "a dinner party")
	assert.Contains(t, msg, "2026-09-12")
}

func TestBuildWhatsAppLink_NoEventDate(t *testing.T) {
	link := BuildWhatsAppLink("4912345", "Sara", "Reza", "meal prep", "")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.NotContains(t, u.Query().Get("text"), "The event is on")
}
