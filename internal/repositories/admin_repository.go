package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tlh_backend/internal/models"
)

var ErrAdminNotFound = errors.New("admin user not found")

type AdminRepository interface {
	Create(db *gorm.DB, user *models.AdminUser) error
	FindByID(db *gorm.DB, id string) (*models.AdminUser, error)
	FindByEmail(db *gorm.DB, email string) (*models.AdminUser, error)
	Count(db *gorm.DB) (int64, error)
}

type AdminRepositoryImpl struct{}

func NewAdminRepository() AdminRepository {
	return &AdminRepositoryImpl{}
}

func (r *AdminRepositoryImpl) Create(db *gorm.DB, user *models.AdminUser) error {
	return db.Create(user).Error
}

func (r *AdminRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}
