package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlh_backend/test/helpers"
)

func TestAuth_LoginAndMe(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, admin := helpers.CreateAndLoginAdmin(t, ts, tx)

	rec, body := ts.SendRequest(t, tx, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, admin.Email)
	assert.NotContains(t, body, "passwordHash")
}

func TestAuth_WrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	helpers.CreateTestAdmin(t, tx, "locked@test.com", "correct-password")

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "locked@test.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown account reads the same as a bad password.
	rec2, body2 := ts.SendRequest(t, tx, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@test.com",
		"password": "whatever-password",
	})
	assert.Equal(t, rec.Code, rec2.Code)
	assert.Equal(t, body, body2)
}

func TestAuth_MeRejectsGarbageToken(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
