package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tlh_backend/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrDuplicateSubmission = errors.New("a review for this chef already exists from this email")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByChefAndEmailHash(db *gorm.DB, chefID, emailHash string) (*models.Review, error)
	FindPublishedByChef(db *gorm.DB, chefID string, limit, offset int) ([]models.Review, int64, error)
	CountRecentByIPHash(db *gorm.DB, ipHash string, window time.Duration) (int64, error)
	ListByStatus(db *gorm.DB, status models.ReviewStatus, limit, offset int) ([]models.Review, int64, error)
	UpdateStatusIf(db *gorm.DB, id string, from, to models.ReviewStatus, extra map[string]interface{}) (bool, error)
	Delete(db *gorm.DB, id string) error
	DeleteStaleAwaiting(db *gorm.DB, olderThan time.Time) ([]models.Review, error)
	RecalculateChefRating(db *gorm.DB, chefID string) error
	AppendEvent(db *gorm.DB, event *models.ReviewEvent) error
	EventsForReview(db *gorm.DB, reviewID string) ([]models.ReviewEvent, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	err := db.Create(review).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSubmission
	}
	return err
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByChefAndEmailHash(db *gorm.DB, chefID, emailHash string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "chef_id = ? AND email_hash = ?", chefID, emailHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindPublishedByChef(db *gorm.DB, chefID string, limit, offset int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).
		Where("chef_id = ? AND status = ?", chefID, models.ReviewStatusPublished)

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

	var reviews []models.Review
	if err := query.Order("published_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// CountRecentByIPHash counts submissions from one IP bucket inside the
// rate-limit window, across all chefs and all statuses.
func (r *ReviewRepositoryImpl) CountRecentByIPHash(db *gorm.DB, ipHash string, window time.Duration) (int64, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("ip_hash = ? AND created_at > ?", ipHash, time.Now().Add(-window)).
		Count(&count).Error
	return count, err
}

func (r *ReviewRepositoryImpl) ListByStatus(db *gorm.DB, status models.ReviewStatus, limit, offset int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("status = ?", status)

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

	var reviews []models.Review
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// UpdateStatusIf performs the atomic compare-and-set at the heart of the
// review lifecycle: UPDATE ... WHERE id AND status = from. Concurrent
// verifications of the same link resolve to exactly one winner; the loser
// sees ok=false and reports "already verified". extra carries columns set
// alongside the status (verified_at, published_at, trust_score).
func (r *ReviewRepositoryImpl) UpdateStatusIf(db *gorm.DB, id string, from, to models.ReviewStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := db.Model(&models.Review{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Review{}, "id = ?", id).Error
}

// DeleteStaleAwaiting removes awaiting_email reviews whose verification
// window is long gone. Returns the removed rows so the caller can audit
// them.
func (r *ReviewRepositoryImpl) DeleteStaleAwaiting(db *gorm.DB, olderThan time.Time) ([]models.Review, error) {
	var stale []models.Review
	err := db.
		Where("status = ? AND created_at < ?", models.ReviewStatusAwaitingEmail, olderThan).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(stale))
	for _, rev := range stale {
		ids = append(ids, rev.ID)
	}
	if err := db.Delete(&models.Review{}, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return stale, nil
}

// RecalculateChefRating recomputes the denormalized aggregates from
// published reviews only. Run inside the same transaction as the status
// change that triggered it.
func (r *ReviewRepositoryImpl) RecalculateChefRating(db *gorm.DB, chefID string) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("chef_id = ? AND status = ?", chefID, models.ReviewStatusPublished).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	return db.Model(&models.Chef{}).
		Where("id = ?", chefID).
		Updates(map[string]interface{}{
			"rating":       stats.Avg,
			"review_count": stats.Count,
		}).Error
}

func (r *ReviewRepositoryImpl) AppendEvent(db *gorm.DB, event *models.ReviewEvent) error {
	return db.Create(event).Error
}

func (r *ReviewRepositoryImpl) EventsForReview(db *gorm.DB, reviewID string) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	err := db.Where("review_id = ?", reviewID).Order("created_at ASC").Find(&events).Error
	return events, err
}
