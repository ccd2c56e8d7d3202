package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sec", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	res := NewClient("sec", srv.URL).Verify(context.Background(), "tok", "1.2.3.4")
	assert.True(t, res.Passed)
	assert.False(t, res.Degraded)
	assert.Equal(t, 1.0, res.Trust)
}

func TestVerify_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	res := NewClient("sec", srv.URL).Verify(context.Background(), "bad", "")
	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Trust)
}

func TestVerify_DegradesWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	res := NewClient("sec", srv.URL).Verify(context.Background(), "tok", "")
	assert.True(t, res.Passed)
	assert.True(t, res.Degraded)
	assert.Equal(t, 0.1, res.Trust)
}

func TestVerify_DegradesOnBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	res := NewClient("sec", srv.URL).Verify(context.Background(), "tok", "")
	assert.True(t, res.Passed)
	assert.True(t, res.Degraded)
}
