package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tlh_backend/internal/models"
)

// CreateTestChef inserts a chef in the given transaction.
func CreateTestChef(t *testing.T, tx *gorm.DB, name string, status models.ChefStatus) *models.Chef {
	chef := &models.Chef{
		Name:     name,
		Bio:      "Cooks like home",
		Phone:    "+4917612345678",
		Location: "Berlin",
		Cuisines: datatypes.JSON(`["Persian"]`),
		Status:   status,
	}
	if err := tx.Create(chef).Error; err != nil {
		t.Fatalf("failed to create test chef: %v", err)
	}
	return chef
}

// CreateTestAdmin inserts an admin with the given raw password.
func CreateTestAdmin(t *testing.T, tx *gorm.DB, email, password string) *models.AdminUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := &models.AdminUser{
		Name:         "Test Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.AdminRoleAdmin,
	}
	if err := tx.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateAndLoginAdmin creates an admin with a unique email and returns a
// bearer token obtained through the real login endpoint.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.AdminUser) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	password := "password-123"
	admin := CreateTestAdmin(t, tx, email, password)

	rec, body := ts.SendRequest(t, tx, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login failed (%d): %s", rec.Code, body)
	}

	var loginResponse struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &loginResponse); err != nil || loginResponse.Token == "" {
		t.Fatalf("failed to parse login response: %v (%s)", err, body)
	}
	return loginResponse.Token, admin
}

// CreateTestReview inserts a review row directly, bypassing the pipeline.
func CreateTestReview(t *testing.T, tx *gorm.DB, chefID string, status models.ReviewStatus, emailHash, ipHash string) *models.Review {
	review := &models.Review{
		ChefID:    chefID,
		Rating:    5,
		Comment:   "Wonderful food",
		EmailHash: emailHash,
		IPHash:    ipHash,
		Status:    status,
	}
	if err := tx.Create(review).Error; err != nil {
		t.Fatalf("failed to create test review: %v", err)
	}
	return review
}
