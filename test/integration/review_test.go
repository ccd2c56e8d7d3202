package integration_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/security"
	"tlh_backend/internal/services"
	"tlh_backend/internal/services/dto"
	"tlh_backend/internal/turnstile"
	"tlh_backend/test/helpers"
)

func submitReviewBody(chefID, email string) map[string]interface{} {
	return map[string]interface{}{
		"chefId":         chefID,
		"rating":         5,
		"comment":        "Amazing khoresht!",
		"email":          email,
		"turnstileToken": "ok",
	}
}

func TestReview_SubmitHappyPath(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Reza", models.ChefStatusPublished)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "guest@example.com"))
	require.Equal(t, http.StatusAccepted, rec.Code, body)
	assert.Contains(t, body, "awaiting_email")

	// Raw identifiers never hit the table.
	var review models.Review
	require.NoError(t, tx.First(&review, "chef_id = ?", chef.ID).Error)
	assert.Equal(t, models.ReviewStatusAwaitingEmail, review.Status)
	assert.NotContains(t, review.EmailHash, "@")
	assert.NotEmpty(t, review.VerifyToken)

	// Not visible publicly before verification.
	rec, body = ts.SendRequest(t, tx, http.MethodGet, "/api/reviews/chefs/"+chef.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"total":0`, body)
}

func TestReview_SubmitZeroRatingRejected(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Nina", models.ChefStatusPublished)

	payload := submitReviewBody(chef.ID, "guest@example.com")
	payload["rating"] = 0

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "Please select a rating from 1-5 stars")
}

func TestReview_SubmitToUnpublishedChef(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Hidden Chef", models.ChefStatusUnpublished)

	rec, _ := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "guest@example.com"))
	assert.Equal(t, http.StatusNotFound, rec.Code, "unpublished chefs look like 404 from outside")
}

func TestReview_SubmitBotTokenRejected(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Omid", models.ChefStatusPublished)

	payload := submitReviewBody(chef.ID, "guest@example.com")
	payload["turnstileToken"] = "bot"

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "Bot check failed")
}

func TestReview_DuplicateByEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Lale", models.ChefStatusPublished)

	rec, _ := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "same@example.com"))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Same address, different casing and spacing: still a duplicate.
	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "  SAME@Example.COM "))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body, "already reviewed")
}

func TestReview_RateLimitPerIP(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	// All requests share the fixed test RemoteAddr, so three submissions
	// to three chefs exhaust the default limit.
	for i := 0; i < 3; i++ {
		chef := helpers.CreateTestChef(t, tx, fmt.Sprintf("Chef %d", i), models.ChefStatusPublished)
		email := fmt.Sprintf("guest%d@example.com", i)
		rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, email))
		require.Equal(t, http.StatusAccepted, rec.Code, body)
	}

	chef := helpers.CreateTestChef(t, tx, "Chef Four", models.ChefStatusPublished)
	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "fourth@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, body, "Too many reviews")
}

func TestReview_VerifyPublishesOnce(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Dariush", models.ChefStatusPublished)

	rec, _ := ts.SendRequest(t, tx, http.MethodPost, "/api/reviews", "", submitReviewBody(chef.ID, "clicker@example.com"))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var review models.Review
	require.NoError(t, tx.First(&review, "chef_id = ?", chef.ID).Error)

	verifyPath := "/api/verify-review?token=" + url.QueryEscape(review.VerifyToken)

	// First click publishes.
	rec, _ = ts.SendRequest(t, tx, http.MethodGet, verifyPath, "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/chef/"+chef.ID+"?success=review-published")

	require.NoError(t, tx.First(&review, "id = ?", review.ID).Error)
	assert.Equal(t, models.ReviewStatusPublished, review.Status)
	require.NotNil(t, review.PublishedAt)

	// Aggregates follow.
	var updated models.Chef
	require.NoError(t, tx.First(&updated, "id = ?", chef.ID).Error)
	assert.Equal(t, int64(1), updated.ReviewCount)
	assert.Equal(t, 5.0, updated.Rating)

	// Second click is idempotent: informational redirect, no state change.
	rec, _ = ts.SendRequest(t, tx, http.MethodGet, verifyPath, "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "info=already-verified")
}

func TestReview_VerifyBadAndMissingTokens(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/verify-review", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=missing-token")

	rec, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/verify-review?token=garbage", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=invalid-token")
}

func TestReview_VerifyExpiredTokenIsAudited(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Soraya", models.ChefStatusPublished)
	review := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusAwaitingEmail, "hash-a", "hash-b")

	// A correctly signed token issued two days ago, past the 24h window.
	stale := signedToken(review.ID, "clicker@example.com", time.Now().Add(-48*time.Hour))

	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/verify-review?token="+url.QueryEscape(stale), "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/chef/"+chef.ID+"?error=link-expired")

	// The review is untouched but the attempt is on record.
	var unchanged models.Review
	require.NoError(t, tx.First(&unchanged, "id = ?", review.ID).Error)
	assert.Equal(t, models.ReviewStatusAwaitingEmail, unchanged.Status)

	var events []models.ReviewEvent
	require.NoError(t, tx.Find(&events, "review_id = ?", review.ID).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReviewActorSystem, events[0].Actor)
	assert.Contains(t, events[0].Note, "expired")
}

func TestReview_VerifySpamReviewFails(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Mina", models.ChefStatusPublished)
	review := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusSpam, "hash-x", "hash-y")

	token := signedToken(review.ID, "spammer@example.com", time.Now())
	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/verify-review?token="+url.QueryEscape(token), "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/chef/"+chef.ID+"?error=verification-failed")
}

func TestReview_AdminMarkSpamRemovesFromAggregates(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Babak", models.ChefStatusPublished)
	review := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusPublished, "hash-1", "hash-2")
	require.NoError(t, tx.Model(&models.Chef{}).Where("id = ?", chef.ID).
		Updates(map[string]interface{}{"rating": 5.0, "review_count": 1}).Error)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/reviews/"+review.ID+"/spam", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)

	var updated models.Chef
	require.NoError(t, tx.First(&updated, "id = ?", chef.ID).Error)
	assert.Equal(t, int64(0), updated.ReviewCount)
	assert.Equal(t, 0.0, updated.Rating)

	// Spam is terminal.
	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/reviews/"+review.ID+"/spam", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReview_AdminPublishOverride(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Shirin", models.ChefStatusPublished)
	review := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusAwaitingEmail, "hash-pub", "hash-pub-ip")

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/reviews/"+review.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)

	var updated models.Review
	require.NoError(t, tx.First(&updated, "id = ?", review.ID).Error)
	assert.Equal(t, models.ReviewStatusPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)

	// Aggregates follow immediately, same as an email verification.
	var updatedChef models.Chef
	require.NoError(t, tx.First(&updatedChef, "id = ?", chef.ID).Error)
	assert.Equal(t, int64(1), updatedChef.ReviewCount)
	assert.Equal(t, 5.0, updatedChef.Rating)

	var events []models.ReviewEvent
	require.NoError(t, tx.Find(&events, "review_id = ?", review.ID).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReviewActorAdmin, events[0].Actor)

	// Already published, nothing left to publish.
	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/reviews/"+review.ID+"/publish", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// brokenAggregateRepo fails only the rating recompute.
type brokenAggregateRepo struct {
	repositories.ReviewRepository
}

func (r brokenAggregateRepo) RecalculateChefRating(db *gorm.DB, chefID string) error {
	return errors.New("aggregates unavailable")
}

type droppedMailSender struct{}

func (droppedMailSender) SendReviewVerification(to, chefName, verifyURL string) error { return nil }
func (droppedMailSender) SendApplicationApproved(to, name, profileURL string) error   { return nil }
func (droppedMailSender) SendApplicationRejected(to, name, reason string) error       { return nil }

func TestReview_VerifyPublishSurvivesRecomputeFailure(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Parisa", models.ChefStatusPublished)
	review := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusAwaitingEmail, "hash-agg", "hash-agg-ip")

	signer := security.NewTokenSigner("integration-test-token-secret", 24*time.Hour)
	svc := services.NewReviewService(
		brokenAggregateRepo{repositories.NewReviewRepository()},
		repositories.NewChefRepository(),
		signer,
		turnstile.NewClient("", ""),
		droppedMailSender{},
		nil,
		services.ReviewConfig{RateLimit: 3, RateWindow: time.Hour},
	)

	result := svc.VerifyReview(context.Background(), tx, signer.Sign(review.ID, "clicker@example.com"))
	assert.Equal(t, dto.VerifyPublished, result.Outcome, "stale aggregates must not undo the publication")

	var updated models.Review
	require.NoError(t, tx.First(&updated, "id = ?", review.ID).Error)
	assert.Equal(t, models.ReviewStatusPublished, updated.Status)
}

func TestReview_AdminRoutesRequireAuth(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/admin/reviews", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// signedToken replicates the verification link token format with the
// integration test secret.
func signedToken(recordID, email string, issuedAt time.Time) string {
	payload := fmt.Sprintf("%s:%s:%d", recordID, email, issuedAt.Unix())
	mac := hmac.New(sha256.New, []byte("integration-test-token-secret"))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
