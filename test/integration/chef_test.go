package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlh_backend/internal/models"
	"tlh_backend/test/helpers"
)

func TestChef_PublicListingHidesUnpublished(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	published := helpers.CreateTestChef(t, tx, "Visible Chef", models.ChefStatusPublished)
	hidden := helpers.CreateTestChef(t, tx, "Hidden Chef", models.ChefStatusUnpublished)

	rec, body := ts.SendRequest(t, tx, http.MethodGet, "/api/chefs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, published.ID)
	assert.NotContains(t, body, hidden.ID)

	rec, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/chefs/"+hidden.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChef_PublicListingFilters(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	berlin := helpers.CreateTestChef(t, tx, "Berlin Chef", models.ChefStatusPublished)
	munich := helpers.CreateTestChef(t, tx, "Munich Chef", models.ChefStatusPublished)
	require.NoError(t, tx.Model(&models.Chef{}).Where("id = ?", munich.ID).
		Update("location", "Munich").Error)

	rec, body := ts.SendRequest(t, tx, http.MethodGet, "/api/chefs?location=berlin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, berlin.ID)
	assert.NotContains(t, body, munich.ID)
}

func TestChef_AdminPublishUnpublishCycle(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Farid", models.ChefStatusUnpublished)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/chefs/"+chef.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)

	rec, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/chefs/"+chef.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/chefs/"+chef.ID+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/chefs/"+chef.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChef_DeletedIsTerminal(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Gone", models.ChefStatusUnpublished)

	rec, _ := ts.SendRequest(t, tx, http.MethodDelete, "/api/admin/chefs/"+chef.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// No way back to the directory.
	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/chefs/"+chef.ID+"/publish", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChef_PermanentDeleteCascades(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Erased", models.ChefStatusPublished)
	helpers.CreateTestReview(t, tx, chef.ID, models.ReviewStatusPublished, "hash-del", "hash-del-ip")

	rec, body := ts.SendRequest(t, tx, http.MethodDelete, "/api/admin/chefs/"+chef.ID+"/permanent", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)

	var chefs int64
	require.NoError(t, tx.Model(&models.Chef{}).Where("id = ?", chef.ID).Count(&chefs).Error)
	assert.Equal(t, int64(0), chefs)

	var reviews int64
	require.NoError(t, tx.Model(&models.Review{}).Where("chef_id = ?", chef.ID).Count(&reviews).Error)
	assert.Equal(t, int64(0), reviews)
}

func TestChef_AdminUpdateProfile(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Farid", models.ChefStatusPublished)

	rec, body := ts.SendRequest(t, tx, http.MethodPut, "/api/admin/chefs/"+chef.ID, token, map[string]interface{}{
		"bio":        "Twenty years of home cooking",
		"hourlyRate": 45.5,
		"verified":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, body)

	var updated models.Chef
	require.NoError(t, tx.First(&updated, "id = ?", chef.ID).Error)
	assert.Equal(t, "Twenty years of home cooking", updated.Bio)
	assert.Equal(t, 45.5, updated.HourlyRate)
	assert.True(t, updated.Verified)
	assert.Equal(t, "Chef Farid", updated.Name, "untouched fields keep their values")
}
