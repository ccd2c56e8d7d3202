package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tlh_backend/database"
	"tlh_backend/internal/app"
	"tlh_backend/internal/config"
	"tlh_backend/pkg/contextkeys"
)

// TestServer runs the real router against a test database. Each test runs
// inside its own transaction, injected per request through the context key
// DBMiddleware looks for, and rolled back afterwards.
type TestServer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	Turnstile *httptest.Server
}

// NewTestServer builds the full application against DATABASE_URL. Skips the
// calling test when no database is available.
func NewTestServer(t *testing.T) *TestServer {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration tests")
	}

	setDefaultEnv("SERVER_ENV", "test")
	setDefaultEnv("JWT_SECRET", "integration-test-jwt-secret")
	setDefaultEnv("REVIEW_TOKEN_SECRET", "integration-test-token-secret")
	setDefaultEnv("SITE_BASE_URL", "http://frontend.test")

	config.LoadConfig()
	cfg := config.GetConfig()

	// Stub siteverify: token "bot" fails the challenge, anything else
	// passes. Lets tests drive both branches without the network.
	turnstileStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("response") == "bot" {
			w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
			return
		}
		w.Write([]byte(`{"success": true}`))
	}))
	cfg.Turnstile.Endpoint = turnstileStub.URL

	uploadDir, err := os.MkdirTemp("", "tlh_uploads_")
	if err != nil {
		t.Fatalf("failed to create upload dir: %v", err)
	}
	cfg.Storage.BasePath = uploadDir

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", cfg.Database.DSN, err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := app.SetupRouter(cfg, db)

	return &TestServer{
		Router:    router,
		DB:        db,
		Turnstile: turnstileStub,
	}
}

func setDefaultEnv(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func (ts *TestServer) Close() {
	ts.Turnstile.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin transaction: %v", tx.Error)
	}
	return tx
}

func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil && err != gorm.ErrInvalidTransaction {
		t.Logf("rollback: %v", err)
	}
}

// SendRequest drives the router directly. The transaction rides the request
// context so DBMiddleware routes all queries through it.
func (ts *TestServer) SendRequest(t *testing.T, tx *gorm.DB, method, path, token string, body interface{}) (*httptest.ResponseRecorder, string) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "203.0.113.50:1234"

	if tx != nil {
		ctx := context.WithValue(req.Context(), contextkeys.DBContextKey, tx)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

// SendMultipartRequest posts a multipart form with string fields and optional
// file parts under the given field name.
func (ts *TestServer) SendMultipartRequest(t *testing.T, tx *gorm.DB, path, token, fileField string, fields map[string]string, files map[string][]byte) (*httptest.ResponseRecorder, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	for filename, content := range files {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("failed to add file part %s: %v", filename, err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write file part %s: %v", filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "203.0.113.50:1234"

	if tx != nil {
		ctx := context.WithValue(req.Context(), contextkeys.DBContextKey, tx)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}
