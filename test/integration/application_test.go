package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlh_backend/internal/models"
	"tlh_backend/test/helpers"
)

func applicationPayload(t *testing.T, overrides map[string]interface{}) string {
	answers := map[string]interface{}{
		"bio":                  "I grew up cooking with my grandmother in Shiraz.",
		"location":             "Hamburg",
		"cuisines":             "Persian, Levantine",
		"experience_years":     12,
		"signature_dish_photo": "dish.jpg",
	}
	for k, v := range overrides {
		if v == nil {
			delete(answers, k)
		} else {
			answers[k] = v
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"name":    "Maryam Hosseini",
		"email":   "maryam@example.com",
		"phone":   "+4915712345678",
		"answers": answers,
	})
	require.NoError(t, err)
	return string(payload)
}

func TestApplication_FormListsActiveQuestions(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, body := ts.SendRequest(t, tx, http.MethodGet, "/api/applications/form", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"key":"bio"`)
	assert.Contains(t, body, `"key":"signature_dish_photo"`)
}

func TestApplication_SubmitHappyPath(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, body := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, nil)},
		map[string][]byte{"dish.jpg": []byte("jpeg-bytes")},
	)
	require.Equal(t, http.StatusCreated, rec.Code, body)

	var app models.ChefApplication
	require.NoError(t, tx.First(&app, "applicant_email = ?", "maryam@example.com").Error)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	var fileRefs []string
	require.NoError(t, json.Unmarshal(app.FileRefs, &fileRefs))
	require.Len(t, fileRefs, 1)
	assert.Contains(t, fileRefs[0], "applications/")
}

func TestApplication_SubmitInvalidEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload, err := json.Marshal(map[string]interface{}{
		"name":    "Maryam Hosseini",
		"email":   "not-an-email",
		"answers": map[string]interface{}{"bio": "hi"},
	})
	require.NoError(t, err)

	rec, body := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": string(payload)},
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	assert.Contains(t, body, `"email"`)
	assert.Contains(t, body, "Must be a valid email address")
}

func TestApplication_SubmitMissingRequiredAnswer(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, body := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, map[string]interface{}{"bio": nil})},
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "This field is required")
}

func TestApplication_SubmitRejectedFileType(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, _ := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, nil)},
		map[string][]byte{"malware.exe": []byte("nope")},
	)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestApplication_ApproveCreatesUnpublishedChef(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, admin := helpers.CreateAndLoginAdmin(t, ts, tx)

	rec, _ := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, nil)},
		nil,
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var app models.ChefApplication
	require.NoError(t, tx.First(&app, "applicant_email = ?", "maryam@example.com").Error)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/applications/"+app.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, body)

	var chef models.Chef
	require.NoError(t, tx.First(&chef, "application_id = ?", app.ID).Error)
	assert.Equal(t, models.ChefStatusUnpublished, chef.Status, "approval never publishes directly")
	assert.Equal(t, "Maryam Hosseini", chef.Name)
	assert.Equal(t, "Hamburg", chef.Location)
	assert.Equal(t, 12, chef.ExperienceYears)

	require.NoError(t, tx.First(&app, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	require.NotNil(t, app.ReviewedBy)
	assert.Equal(t, admin.ID, *app.ReviewedBy)
	assert.NotNil(t, app.ReviewedAt)

	// The decision is final.
	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/applications/"+app.ID+"/approve", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec, _ = ts.SendRequest(t, tx, http.MethodPost, "/api/admin/applications/"+app.ID+"/reject", token,
		map[string]interface{}{"reason": "changed my mind"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplication_RejectRecordsReason(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	rec, _ := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, nil)},
		nil,
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var app models.ChefApplication
	require.NoError(t, tx.First(&app, "applicant_email = ?", "maryam@example.com").Error)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/applications/"+app.ID+"/reject", token,
		map[string]interface{}{"reason": "No photos of actual dishes"})
	require.Equal(t, http.StatusOK, rec.Code, body)

	require.NoError(t, tx.First(&app, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
	require.NotNil(t, app.RejectReason)
	assert.Equal(t, "No photos of actual dishes", *app.RejectReason)
}

func TestApplication_DeactivatedQuestionLeavesForm(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/admin/questions", token, map[string]interface{}{
		"key":      "favorite_spice",
		"label":    "What is your favorite spice?",
		"kind":     "text",
		"position": 99,
	})
	require.Equal(t, http.StatusCreated, rec.Code, body)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	rec, body = ts.SendRequest(t, tx, http.MethodGet, "/api/applications/form", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "favorite_spice")

	rec, _ = ts.SendRequest(t, tx, http.MethodDelete, "/api/admin/questions/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = ts.SendRequest(t, tx, http.MethodGet, "/api/applications/form", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "favorite_spice")
}
