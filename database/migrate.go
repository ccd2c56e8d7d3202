package database

import (
	"gorm.io/gorm"

	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
)

// Migrate runs schema migrations and seeds the default application form.
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on the models need this extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.AdminUser{},
		&models.Chef{},
		&models.ChefPhoto{},
		&models.ChefApplication{},
		&models.ChefQuestion{},
		&models.Review{},
		&models.ReviewEvent{},
		&models.CustomerContact{},
		&models.CustomerInquiry{},
	)
	if err != nil {
		return err
	}

	if err := seedDefaultQuestions(db); err != nil {
		return err
	}

	logger.Info("Database migrated")
	return nil
}

// seedDefaultQuestions installs the initial intake form once. Admins manage
// the set afterwards; re-running migrations never overwrites their edits.
func seedDefaultQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ChefQuestion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.ChefQuestion{
		{Key: "bio", Label: "Tell us about yourself and your cooking", Kind: models.QuestionKindText, Required: true, Position: 1, Active: true},
		{Key: "location", Label: "Where are you based?", Kind: models.QuestionKindText, Required: true, Position: 2, Active: true},
		{Key: "cuisines", Label: "Which cuisines do you cook?", Kind: models.QuestionKindText, Required: true, Position: 3, Active: true},
		{Key: "experience_years", Label: "Years of cooking experience", Kind: models.QuestionKindNumber, Required: true, Position: 4, Active: true},
		{Key: "hourly_rate", Label: "Your hourly rate", Kind: models.QuestionKindNumber, Required: false, Position: 5, Active: true},
		{Key: "signature_dish_photo", Label: "A photo of your signature dish", Kind: models.QuestionKindPhoto, Required: true, Position: 6, Active: true},
		{Key: "intro_video", Label: "A short introduction video", Hint: "Optional, up to one minute", Kind: models.QuestionKindVideo, Required: false, Position: 7, Active: true},
	}
	return db.Create(&defaults).Error
}
