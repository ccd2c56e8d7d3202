package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/revalidate"
	"tlh_backend/internal/services/dto"
	"tlh_backend/internal/storage"
	"tlh_backend/pkg/apperrors"
)

const maxPhotoSize = 10 << 20 // 10 MB

var allowedPhotoExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type ChefService interface {
	// Public directory
	ListChefs(db *gorm.DB, query *dto.ChefListQuery) (*dto.ChefListResponse, error)
	GetChef(db *gorm.DB, id string) (*dto.ChefResponse, error)

	// Admin
	GetChefAdmin(db *gorm.DB, id string) (*dto.ChefResponse, error)
	ListChefsAdmin(db *gorm.DB, status models.ChefStatus, page, pageSize int) (*dto.ChefListResponse, error)
	UpdateChef(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateChefRequest) (*dto.ChefResponse, error)
	SetChefStatus(ctx context.Context, db *gorm.DB, id string, to models.ChefStatus) error
	PermanentlyDeleteChef(ctx context.Context, db *gorm.DB, id string) error
	UploadPhoto(ctx context.Context, db *gorm.DB, chefID string, file *multipart.FileHeader) (string, error)
	DeletePhoto(ctx context.Context, db *gorm.DB, chefID, photoID string) error
}

type chefService struct {
	chefRepo   repositories.ChefRepository
	storage    storage.Storage
	revalidate *revalidate.Client
}

func NewChefService(chefRepo repositories.ChefRepository, store storage.Storage, reval *revalidate.Client) ChefService {
	return &chefService{chefRepo: chefRepo, storage: store, revalidate: reval}
}

// ---------------- Public ----------------

func (s *chefService) ListChefs(db *gorm.DB, query *dto.ChefListQuery) (*dto.ChefListResponse, error) {
	page, pageSize := normalizePaging(query.Page, query.PageSize)

	chefs, total, err := s.chefRepo.List(db, repositories.ChefListFilter{
		Location: query.Location,
		Cuisine:  query.Cuisine,
		Verified: query.Verified,
		Status:   models.ChefStatusPublished,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ChefListResponse{
		Chefs:    toChefResponses(chefs),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *chefService) GetChef(db *gorm.DB, id string) (*dto.ChefResponse, error) {
	chef, err := s.chefRepo.FindPublishedByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return nil, apperrors.ErrChefNotPublished
		}
		return nil, apperrors.InternalError(err)
	}
	return toChefResponse(chef), nil
}

// ---------------- Admin ----------------

func (s *chefService) GetChefAdmin(db *gorm.DB, id string) (*dto.ChefResponse, error) {
	chef, err := s.chefRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return toChefResponse(chef), nil
}

func (s *chefService) ListChefsAdmin(db *gorm.DB, status models.ChefStatus, page, pageSize int) (*dto.ChefListResponse, error) {
	page, pageSize = normalizePaging(page, pageSize)

	chefs, total, err := s.chefRepo.List(db, repositories.ChefListFilter{
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ChefListResponse{
		Chefs:    toChefResponses(chefs),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *chefService) UpdateChef(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateChefRequest) (*dto.ChefResponse, error) {
	chef, err := s.chefRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		chef.Name = *req.Name
	}
	if req.Bio != nil {
		chef.Bio = *req.Bio
	}
	if req.Phone != nil {
		chef.Phone = *req.Phone
	}
	if req.HourlyRate != nil {
		chef.HourlyRate = *req.HourlyRate
	}
	if req.Location != nil {
		chef.Location = *req.Location
	}
	if req.ExperienceYears != nil {
		chef.ExperienceYears = *req.ExperienceYears
	}
	if req.Verified != nil {
		chef.Verified = *req.Verified
	}
	if req.Languages != nil {
		chef.Languages = mustJSON(req.Languages)
	}
	if req.Cuisines != nil {
		chef.Cuisines = mustJSON(req.Cuisines)
	}

	if err := s.chefRepo.Update(db, chef); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if chef.IsPubliclyVisible() && s.revalidate != nil {
		s.revalidate.ChefPage(ctx, chef.ID)
	}
	return toChefResponse(chef), nil
}

// SetChefStatus applies a lifecycle transition via compare-and-set.
func (s *chefService) SetChefStatus(ctx context.Context, db *gorm.DB, id string, to models.ChefStatus) error {
	chef, err := s.chefRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !models.CanTransitionChef(chef.Status, to) {
		return apperrors.ErrInvalidStatus("chef",
			fmt.Sprintf("cannot move chef from %s to %s", chef.Status, to))
	}

	ok, err := s.chefRepo.UpdateStatusIf(db, id, chef.Status, to)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrInvalidStatus("chef", "chef changed state, retry")
	}

	logger.CtxInfo(ctx, "chef status changed", "chef_id", id, "from", chef.Status, "to", to)
	if s.revalidate != nil {
		s.revalidate.ChefPage(ctx, id)
	}
	return nil
}

// PermanentlyDeleteChef removes the chef row and cascades to photos and
// reviews. Unlike the soft delete this is not a status transition and cannot
// be undone; storage objects are cleaned up best-effort after the rows are
// gone.
func (s *chefService) PermanentlyDeleteChef(ctx context.Context, db *gorm.DB, id string) error {
	chef, err := s.chefRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.chefRepo.HardDelete(db, id); err != nil {
		return apperrors.InternalError(err)
	}

	for _, photo := range chef.Photos {
		if err := s.storage.Delete(ctx, photo.StoragePath); err != nil {
			logger.CtxWarn(ctx, "failed to delete photo object", "path", photo.StoragePath, "error", err)
		}
	}

	logger.CtxInfo(ctx, "chef permanently deleted", "chef_id", id)
	if s.revalidate != nil {
		s.revalidate.ChefPage(ctx, id)
	}
	return nil
}

func (s *chefService) UploadPhoto(ctx context.Context, db *gorm.DB, chefID string, file *multipart.FileHeader) (string, error) {
	chef, err := s.chefRepo.FindByID(db, chefID)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return "", apperrors.ErrNotFound(err)
		}
		return "", apperrors.InternalError(err)
	}

	if file.Size > maxPhotoSize {
		return "", apperrors.ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedPhotoExt[ext]
	if !ok {
		return "", apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	path := fmt.Sprintf("chefs/%s/%s%s", chef.ID, uuid.New().String(), ext)
	if err := s.storage.Save(ctx, path, src, contentType); err != nil {
		return "", apperrors.InternalError(err)
	}

	publicURL, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	photo := &models.ChefPhoto{
		ChefID:      chef.ID,
		StoragePath: path,
		URL:         publicURL,
		Position:    len(chef.Photos),
	}
	if err := s.chefRepo.AddPhoto(db, photo); err != nil {
		return "", apperrors.InternalError(err)
	}

	if chef.IsPubliclyVisible() && s.revalidate != nil {
		s.revalidate.ChefPage(ctx, chef.ID)
	}
	return publicURL, nil
}

func (s *chefService) DeletePhoto(ctx context.Context, db *gorm.DB, chefID, photoID string) error {
	chef, err := s.chefRepo.FindByID(db, chefID)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	var target *models.ChefPhoto
	for i := range chef.Photos {
		if chef.Photos[i].ID == photoID {
			target = &chef.Photos[i]
			break
		}
	}
	if target == nil {
		return apperrors.ErrNotFound(errors.New("photo not found"))
	}

	if err := s.chefRepo.DeletePhoto(db, photoID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.storage.Delete(ctx, target.StoragePath); err != nil {
		// Orphaned object, not a user-visible failure.
		logger.CtxWarn(ctx, "failed to delete photo object", "path", target.StoragePath, "error", err)
	}
	return nil
}

// ---------------- Helpers ----------------

func toChefResponse(chef *models.Chef) *dto.ChefResponse {
	photos := make([]string, 0, len(chef.Photos))
	for _, p := range chef.Photos {
		photos = append(photos, p.URL)
	}
	return &dto.ChefResponse{
		ID:              chef.ID,
		Name:            chef.Name,
		Bio:             chef.Bio,
		HourlyRate:      chef.HourlyRate,
		Location:        chef.Location,
		ExperienceYears: chef.ExperienceYears,
		Languages:       jsonToStrings(chef.Languages),
		Cuisines:        jsonToStrings(chef.Cuisines),
		Verified:        chef.Verified,
		Rating:          chef.Rating,
		ReviewCount:     chef.ReviewCount,
		Photos:          photos,
		CreatedAt:       chef.CreatedAt,
	}
}

func toChefResponses(chefs []models.Chef) []*dto.ChefResponse {
	out := make([]*dto.ChefResponse, 0, len(chefs))
	for i := range chefs {
		out = append(out, toChefResponse(&chefs[i]))
	}
	return out
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

func jsonToStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return []string{}
	}
	return out
}
