package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/workers"
	"tlh_backend/test/helpers"
)

func TestCleanup_PurgesOnlyStaleUnverifiedReviews(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	chef := helpers.CreateTestChef(t, tx, "Chef Nasrin", models.ChefStatusPublished)

	stale := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusAwaitingEmail, "hash-stale", "hash-ip-1")
	fresh := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusAwaitingEmail, "hash-fresh", "hash-ip-2")
	published := helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusPublished, "hash-pub", "hash-ip-3")

	// Age the stale one past the 24h TTL plus the 7 day grace.
	longAgo := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, tx.Model(&models.Review{}).Where("id = ?", stale.ID).
		Update("created_at", longAgo).Error)
	require.NoError(t, tx.Model(&models.Review{}).Where("id = ?", published.ID).
		Update("created_at", longAgo).Error)

	worker := workers.NewCleanupWorker(tx, repositories.NewReviewRepository(), 24*time.Hour)
	worker.RunOnce(context.Background())

	var remaining []models.Review
	require.NoError(t, tx.Find(&remaining, "chef_id = ?", chef.ID).Error)
	require.Len(t, remaining, 2)

	ids := []string{remaining[0].ID, remaining[1].ID}
	assert.NotContains(t, ids, stale.ID)
	assert.Contains(t, ids, fresh.ID)
	assert.Contains(t, ids, published.ID, "old but published reviews stay")

	var events []models.ReviewEvent
	require.NoError(t, tx.Find(&events, "review_id = ?", stale.ID).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReviewActorSystem, events[0].Actor)
	assert.Contains(t, events[0].Note, "purged")
}
