package integration_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlh_backend/internal/models"
	"tlh_backend/test/helpers"
)

func TestFiles_ServeUploadedChefPhoto(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	chef := helpers.CreateTestChef(t, tx, "Chef Yasaman", models.ChefStatusPublished)

	photo := []byte("jpeg-bytes-here")
	rec, body := ts.SendMultipartRequest(t, tx, "/api/admin/chefs/"+chef.ID+"/photos", token, "photo",
		nil, map[string][]byte{"plate.jpg": photo})
	require.Equal(t, http.StatusCreated, rec.Code, body)

	var created struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.True(t, strings.HasPrefix(created.URL, "/api/files/"), created.URL)

	// The URL a browser gets actually resolves.
	rec, body = ts.SendRequest(t, tx, http.MethodGet, created.URL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, string(photo), body)
}

func TestFiles_ApplicationUploadsAreAdminOnly(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginAdmin(t, ts, tx)

	rec, _ := ts.SendMultipartRequest(t, tx, "/api/applications", "", "files",
		map[string]string{"payload": applicationPayload(t, nil)},
		map[string][]byte{"dish.jpg": []byte("intake-photo")},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var app models.ChefApplication
	require.NoError(t, tx.First(&app, "applicant_email = ?", "maryam@example.com").Error)
	var fileRefs []string
	require.NoError(t, json.Unmarshal(app.FileRefs, &fileRefs))
	require.Len(t, fileRefs, 1)

	// Not reachable without credentials.
	rec, _ = ts.SendRequest(t, tx, http.MethodGet, "/api/files/"+fileRefs[0], "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := ts.SendRequest(t, tx, http.MethodGet, "/api/admin/files/"+fileRefs[0], token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "intake-photo", body)
}

func TestFiles_RejectsPathTraversal(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	rec, _ := ts.SendRequest(t, tx, http.MethodGet, "/api/files/chefs/../../etc/passwd", "", nil)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
