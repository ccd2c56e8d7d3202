package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tlh_backend/internal/models"
)

var ErrChefNotFound = errors.New("chef not found")

// ChefListFilter narrows the public directory listing.
type ChefListFilter struct {
	Location string
	Cuisine  string
	Verified *bool
	Status   models.ChefStatus
	Limit    int
	Offset   int
}

type ChefRepository interface {
	Create(db *gorm.DB, chef *models.Chef) error
	FindByID(db *gorm.DB, id string) (*models.Chef, error)
	FindPublishedByID(db *gorm.DB, id string) (*models.Chef, error)
	List(db *gorm.DB, filter ChefListFilter) ([]models.Chef, int64, error)
	Update(db *gorm.DB, chef *models.Chef) error
	UpdateStatusIf(db *gorm.DB, id string, from, to models.ChefStatus) (bool, error)
	HardDelete(db *gorm.DB, id string) error
	AddPhoto(db *gorm.DB, photo *models.ChefPhoto) error
	DeletePhoto(db *gorm.DB, photoID string) error
}

type ChefRepositoryImpl struct{}

func NewChefRepository() ChefRepository {
	return &ChefRepositoryImpl{}
}

func (r *ChefRepositoryImpl) Create(db *gorm.DB, chef *models.Chef) error {
	return db.Create(chef).Error
}

func (r *ChefRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Chef, error) {
	var chef models.Chef
	err := db.Preload("Photos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&chef, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChefNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chef, nil
}

// FindPublishedByID only returns the chef when it is publicly visible.
// Unpublished and soft-deleted chefs look identical to not-found from the
// outside.
func (r *ChefRepositoryImpl) FindPublishedByID(db *gorm.DB, id string) (*models.Chef, error) {
	var chef models.Chef
	err := db.Preload("Photos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&chef, "id = ? AND status = ?", id, models.ChefStatusPublished).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChefNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chef, nil
}

func (r *ChefRepositoryImpl) List(db *gorm.DB, filter ChefListFilter) ([]models.Chef, int64, error) {
	query := db.Model(&models.Chef{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Cuisine != "" {
		query = query.Where("cuisines::text ILIKE ?", "%"+filter.Cuisine+"%")
	}
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var chefs []models.Chef
	err := query.
		Preload("Photos", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("rating DESC, review_count DESC").
		Find(&chefs).Error
	if err != nil {
		return nil, 0, err
	}
	return chefs, total, nil
}

func (r *ChefRepositoryImpl) Update(db *gorm.DB, chef *models.Chef) error {
	return db.Save(chef).Error
}

// UpdateStatusIf performs a conditional transition. The WHERE clause on the
// current status makes concurrent admin actions race-safe: the second writer
// matches zero rows and gets ok=false.
func (r *ChefRepositoryImpl) UpdateStatusIf(db *gorm.DB, id string, from, to models.ChefStatus) (bool, error) {
	res := db.Model(&models.Chef{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// HardDelete removes the chef row together with its photos and reviews.
// Review events stay behind as the audit trail of what was removed.
func (r *ChefRepositoryImpl) HardDelete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, "chef_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ChefPhoto{}, "chef_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Chef{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrChefNotFound
		}
		return nil
	})
}

func (r *ChefRepositoryImpl) AddPhoto(db *gorm.DB, photo *models.ChefPhoto) error {
	return db.Create(photo).Error
}

func (r *ChefRepositoryImpl) DeletePhoto(db *gorm.DB, photoID string) error {
	return db.Delete(&models.ChefPhoto{}, "id = ?", photoID).Error
}
