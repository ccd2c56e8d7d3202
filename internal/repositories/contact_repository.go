package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tlh_backend/internal/models"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

type ContactRepository interface {
	UpsertContact(db *gorm.DB, contact *models.CustomerContact) error
	CreateInquiry(db *gorm.DB, inquiry *models.CustomerInquiry) error
	FindInquiryByID(db *gorm.DB, id string) (*models.CustomerInquiry, error)
	ListInquiries(db *gorm.DB, status models.InquiryStatus, limit, offset int) ([]models.CustomerInquiry, int64, error)
	UpdateInquiryStatus(db *gorm.DB, id string, status models.InquiryStatus) error
}

type ContactRepositoryImpl struct{}

func NewContactRepository() ContactRepository {
	return &ContactRepositoryImpl{}
}

// UpsertContact inserts or refreshes a contact keyed by email hash, so a
// returning customer keeps a single row with their latest name and phone.
func (r *ContactRepositoryImpl) UpsertContact(db *gorm.DB, contact *models.CustomerContact) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "updated_at"}),
	}).Create(contact).Error
}

func (r *ContactRepositoryImpl) CreateInquiry(db *gorm.DB, inquiry *models.CustomerInquiry) error {
	return db.Create(inquiry).Error
}

func (r *ContactRepositoryImpl) FindInquiryByID(db *gorm.DB, id string) (*models.CustomerInquiry, error) {
	var inquiry models.CustomerInquiry
	err := db.Preload("Contact").First(&inquiry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *ContactRepositoryImpl) ListInquiries(db *gorm.DB, status models.InquiryStatus, limit, offset int) ([]models.CustomerInquiry, int64, error) {
	query := db.Model(&models.CustomerInquiry{})
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

	var inquiries []models.CustomerInquiry
	if err := query.Preload("Contact").Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, 0, err
	}
	return inquiries, total, nil
}

func (r *ContactRepositoryImpl) UpdateInquiryStatus(db *gorm.DB, id string, status models.InquiryStatus) error {
	res := db.Model(&models.CustomerInquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}
