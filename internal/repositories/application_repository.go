package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tlh_backend/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrQuestionNotFound    = errors.New("question not found")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.ChefApplication) error
	FindByID(db *gorm.DB, id string) (*models.ChefApplication, error)
	ListByStatus(db *gorm.DB, status models.ApplicationStatus, limit, offset int) ([]models.ChefApplication, int64, error)
	Update(db *gorm.DB, app *models.ChefApplication) error
	UpdateStatusIf(db *gorm.DB, id string, from, to models.ApplicationStatus) (bool, error)

	// Question form management
	CreateQuestion(db *gorm.DB, q *models.ChefQuestion) error
	FindQuestionByID(db *gorm.DB, id string) (*models.ChefQuestion, error)
	ListActiveQuestions(db *gorm.DB) ([]models.ChefQuestion, error)
	ListAllQuestions(db *gorm.DB) ([]models.ChefQuestion, error)
	UpdateQuestion(db *gorm.DB, q *models.ChefQuestion) error
	DeactivateQuestion(db *gorm.DB, id string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.ChefApplication) error {
	return db.Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ChefApplication, error) {
	var app models.ChefApplication
	err := db.First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListByStatus(db *gorm.DB, status models.ApplicationStatus, limit, offset int) ([]models.ChefApplication, int64, error) {
	query := db.Model(&models.ChefApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var apps []models.ChefApplication
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *ApplicationRepositoryImpl) Update(db *gorm.DB, app *models.ChefApplication) error {
	return db.Save(app).Error
}

// UpdateStatusIf guards the approve/reject decision with a conditional
// update so two admins acting at once cannot both decide the application.
func (r *ApplicationRepositoryImpl) UpdateStatusIf(db *gorm.DB, id string, from, to models.ApplicationStatus) (bool, error) {
	res := db.Model(&models.ChefApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Question form management

func (r *ApplicationRepositoryImpl) CreateQuestion(db *gorm.DB, q *models.ChefQuestion) error {
	return db.Create(q).Error
}

func (r *ApplicationRepositoryImpl) FindQuestionByID(db *gorm.DB, id string) (*models.ChefQuestion, error) {
	var q models.ChefQuestion
	err := db.First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *ApplicationRepositoryImpl) ListActiveQuestions(db *gorm.DB) ([]models.ChefQuestion, error) {
	var questions []models.ChefQuestion
	err := db.Where("active = ?", true).Order("position ASC").Find(&questions).Error
	return questions, err
}

func (r *ApplicationRepositoryImpl) ListAllQuestions(db *gorm.DB) ([]models.ChefQuestion, error) {
	var questions []models.ChefQuestion
	err := db.Order("position ASC").Find(&questions).Error
	return questions, err
}

func (r *ApplicationRepositoryImpl) UpdateQuestion(db *gorm.DB, q *models.ChefQuestion) error {
	return db.Save(q).Error
}

// DeactivateQuestion hides the question from new forms. Existing
// application answers keep referencing its key, so questions are never
// hard-deleted.
func (r *ApplicationRepositoryImpl) DeactivateQuestion(db *gorm.DB, id string) error {
	res := db.Model(&models.ChefQuestion{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
