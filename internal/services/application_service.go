package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tlh_backend/internal/email"
	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/revalidate"
	"tlh_backend/internal/services/dto"
	"tlh_backend/internal/storage"
	"tlh_backend/pkg/apperrors"
)

const maxUploadSize = 50 << 20 // 50 MB, covers short intro videos

var allowedUploadExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

type ApplicationService interface {
	// Public intake
	GetForm(db *gorm.DB) ([]*dto.QuestionResponse, error)
	SubmitApplication(ctx context.Context, db *gorm.DB, req *dto.SubmitApplicationRequest, files []*multipart.FileHeader) (*dto.ApplicationResponse, error)

	// Admin decisions
	ListApplications(db *gorm.DB, status models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error)
	GetApplication(db *gorm.DB, id string) (*dto.ApplicationResponse, error)
	ApproveApplication(ctx context.Context, db *gorm.DB, adminID, appID string) (*dto.ChefResponse, error)
	RejectApplication(ctx context.Context, db *gorm.DB, adminID, appID string, reason string) error

	// Admin form management
	ListQuestions(db *gorm.DB) ([]*dto.QuestionResponse, error)
	CreateQuestion(db *gorm.DB, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(db *gorm.DB, id string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeactivateQuestion(db *gorm.DB, id string) error
}

type applicationService struct {
	appRepo    repositories.ApplicationRepository
	chefRepo   repositories.ChefRepository
	storage    storage.Storage
	sender     email.Sender
	revalidate *revalidate.Client
	baseURL    string
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	chefRepo repositories.ChefRepository,
	store storage.Storage,
	sender email.Sender,
	reval *revalidate.Client,
	baseURL string,
) ApplicationService {
	return &applicationService{
		appRepo:    appRepo,
		chefRepo:   chefRepo,
		storage:    store,
		sender:     sender,
		revalidate: reval,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ---------------- Public intake ----------------

func (s *applicationService) GetForm(db *gorm.DB) ([]*dto.QuestionResponse, error) {
	questions, err := s.appRepo.ListActiveQuestions(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toQuestionResponses(questions), nil
}

// SubmitApplication validates the answers against the active question set,
// stores uploads, and files the application as pending.
func (s *applicationService) SubmitApplication(ctx context.Context, db *gorm.DB, req *dto.SubmitApplicationRequest, files []*multipart.FileHeader) (*dto.ApplicationResponse, error) {
	questions, err := s.appRepo.ListActiveQuestions(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := validateAnswers(questions, req.Answers); err != nil {
		return nil, err
	}

	fileRefs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := s.saveUpload(ctx, file)
		if err != nil {
			return nil, err
		}
		fileRefs = append(fileRefs, ref)
	}

	app := &models.ChefApplication{
		ApplicantName:  req.Name,
		ApplicantEmail: req.Email,
		ApplicantPhone: req.Phone,
		Answers:        mustJSON(req.Answers),
		FileRefs:       mustJSON(fileRefs),
		Status:         models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "chef application submitted", "application_id", app.ID)
	return toApplicationResponse(app), nil
}

func (s *applicationService) saveUpload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", apperrors.ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedUploadExt[ext]
	if !ok {
		return "", apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	path := fmt.Sprintf("applications/%s%s", uuid.New().String(), ext)
	if err := s.storage.Save(ctx, path, src, contentType); err != nil {
		return "", apperrors.InternalError(err)
	}
	return path, nil
}

// validateAnswers enforces required questions and kind-specific constraints.
func validateAnswers(questions []models.ChefQuestion, answers map[string]interface{}) error {
	problems := map[string]string{}

	for _, q := range questions {
		raw, present := answers[q.Key]
		if !present || raw == nil || raw == "" {
			if q.Required {
				problems[q.Key] = "This field is required"
			}
			continue
		}

		var constraints map[string]float64
		if len(q.Constraints) > 0 {
			// Non-numeric constraint values are ignored here on purpose.
			_ = json.Unmarshal(q.Constraints, &constraints)
		}

		switch q.Kind {
		case models.QuestionKindText:
			str, ok := raw.(string)
			if !ok {
				problems[q.Key] = "Must be text"
				continue
			}
			if max, has := constraints["max_len"]; has && float64(len(str)) > max {
				problems[q.Key] = fmt.Sprintf("Must be at most %d characters long", int(max))
			}
		case models.QuestionKindNumber:
			num, ok := raw.(float64)
			if !ok {
				problems[q.Key] = "Must be a number"
				continue
			}
			if min, has := constraints["min"]; has && num < min {
				problems[q.Key] = fmt.Sprintf("Must be at least %v", min)
			}
			if max, has := constraints["max"]; has && num > max {
				problems[q.Key] = fmt.Sprintf("Must be at most %v", max)
			}
		case models.QuestionKindPhoto, models.QuestionKindVideo:
			// Media answers arrive as file references; presence is enough.
		}
	}

	if len(problems) > 0 {
		return apperrors.New(apperrors.CodeValidationFailed, "application", "Some answers are invalid", 400).
			WithDetails(problems)
	}
	return nil
}

// ---------------- Admin decisions ----------------

func (s *applicationService) ListApplications(db *gorm.DB, status models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error) {
	page, pageSize = normalizePaging(page, pageSize)

	apps, total, err := s.appRepo.ListByStatus(db, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return &dto.ApplicationListResponse{
		Applications: out,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (s *applicationService) GetApplication(db *gorm.DB, id string) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return toApplicationResponse(app), nil
}

// ApproveApplication flips the application to approved and creates the chef
// profile (unpublished) in one transaction. The approval email and cache
// revalidation run after commit and never roll the decision back.
func (s *applicationService) ApproveApplication(ctx context.Context, db *gorm.DB, adminID, appID string) (*dto.ChefResponse, error) {
	app, err := s.appRepo.FindByID(db, appID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationAlreadyDecided
	}

	chef := chefFromApplication(app)
	now := time.Now()

	txErr := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.appRepo.UpdateStatusIf(tx, appID, models.ApplicationStatusPending, models.ApplicationStatusApproved)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.ErrApplicationAlreadyDecided
		}
		if err := s.chefRepo.Create(tx, chef); err != nil {
			return apperrors.InternalError(err)
		}
		return tx.Model(&models.ChefApplication{}).
			Where("id = ?", appID).
			Updates(map[string]interface{}{
				"reviewed_by": adminID,
				"reviewed_at": now,
			}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	profileURL := fmt.Sprintf("%s/chef/%s", s.baseURL, chef.ID)
	if err := s.sender.SendApplicationApproved(app.ApplicantEmail, app.ApplicantName, profileURL); err != nil {
		logger.CtxWarn(ctx, "approval email failed", "application_id", appID, "error", err)
	}

	// The frontend may have cached a not-found state for the profile URL
	// that just went out in the approval email.
	if s.revalidate != nil {
		s.revalidate.ChefPage(ctx, chef.ID)
	}

	logger.CtxInfo(ctx, "application approved", "application_id", appID, "chef_id", chef.ID, "admin_id", adminID)
	return toChefResponse(chef), nil
}

func (s *applicationService) RejectApplication(ctx context.Context, db *gorm.DB, adminID, appID, reason string) error {
	app, err := s.appRepo.FindByID(db, appID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if app.Status != models.ApplicationStatusPending {
		return apperrors.ErrApplicationAlreadyDecided
	}

	ok, err := s.appRepo.UpdateStatusIf(db, appID, models.ApplicationStatusPending, models.ApplicationStatusRejected)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrApplicationAlreadyDecided
	}

	now := time.Now()
	updates := map[string]interface{}{
		"reviewed_by": adminID,
		"reviewed_at": now,
	}
	if reason != "" {
		updates["reject_reason"] = reason
	}
	if err := db.Model(&models.ChefApplication{}).Where("id = ?", appID).Updates(updates).Error; err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.sender.SendApplicationRejected(app.ApplicantEmail, app.ApplicantName, reason); err != nil {
		logger.CtxWarn(ctx, "rejection email failed", "application_id", appID, "error", err)
	}

	logger.CtxInfo(ctx, "application rejected", "application_id", appID, "admin_id", adminID)
	return nil
}

// chefFromApplication maps well-known answer keys onto the profile. Unknown
// keys stay in the application record for admins to consult.
func chefFromApplication(app *models.ChefApplication) *models.Chef {
	appID := app.ID
	chef := &models.Chef{
		Name:          app.ApplicantName,
		Phone:         app.ApplicantPhone,
		Status:        models.ChefStatusUnpublished,
		ApplicationID: &appID,
	}

	var answers map[string]interface{}
	if err := json.Unmarshal(app.Answers, &answers); err != nil {
		return chef
	}

	if v, ok := answers["bio"].(string); ok {
		chef.Bio = v
	}
	if v, ok := answers["location"].(string); ok {
		chef.Location = v
	}
	if v, ok := answers["hourly_rate"].(float64); ok {
		chef.HourlyRate = v
	}
	if v, ok := answers["experience_years"].(float64); ok {
		chef.ExperienceYears = int(v)
	}
	if v, ok := answers["cuisines"].([]interface{}); ok {
		chef.Cuisines = mustJSON(v)
	}
	if v, ok := answers["languages"].([]interface{}); ok {
		chef.Languages = mustJSON(v)
	}
	return chef
}

// ---------------- Form management ----------------

func (s *applicationService) ListQuestions(db *gorm.DB) ([]*dto.QuestionResponse, error) {
	questions, err := s.appRepo.ListAllQuestions(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toQuestionResponses(questions), nil
}

func (s *applicationService) CreateQuestion(db *gorm.DB, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	q := &models.ChefQuestion{
		Key:      req.Key,
		Label:    req.Label,
		Hint:     req.Hint,
		Kind:     models.QuestionKind(req.Kind),
		Required: req.Required,
		Position: req.Position,
		Active:   true,
	}
	if req.Constraints != nil {
		q.Constraints = mustJSON(req.Constraints)
	}
	if err := s.appRepo.CreateQuestion(db, q); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toQuestionResponse(q), nil
}

func (s *applicationService) UpdateQuestion(db *gorm.DB, id string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	q, err := s.appRepo.FindQuestionByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Label != nil {
		q.Label = *req.Label
	}
	if req.Hint != nil {
		q.Hint = *req.Hint
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	if req.Position != nil {
		q.Position = *req.Position
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	if req.Constraints != nil {
		q.Constraints = mustJSON(req.Constraints)
	}

	if err := s.appRepo.UpdateQuestion(db, q); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toQuestionResponse(q), nil
}

func (s *applicationService) DeactivateQuestion(db *gorm.DB, id string) error {
	if err := s.appRepo.DeactivateQuestion(db, id); err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ---------------- Helpers ----------------

func toApplicationResponse(app *models.ChefApplication) *dto.ApplicationResponse {
	var answers map[string]interface{}
	_ = json.Unmarshal(app.Answers, &answers)

	var fileRefs []string
	_ = json.Unmarshal(app.FileRefs, &fileRefs)

	return &dto.ApplicationResponse{
		ID:             app.ID,
		ApplicantName:  app.ApplicantName,
		ApplicantEmail: app.ApplicantEmail,
		ApplicantPhone: app.ApplicantPhone,
		Answers:        answers,
		FileRefs:       fileRefs,
		Status:         string(app.Status),
		AdminNotes:     app.AdminNotes,
		RejectReason:   app.RejectReason,
		ReviewedAt:     app.ReviewedAt,
		CreatedAt:      app.CreatedAt,
	}
}

func toQuestionResponse(q *models.ChefQuestion) *dto.QuestionResponse {
	var constraints map[string]interface{}
	if len(q.Constraints) > 0 {
		_ = json.Unmarshal(q.Constraints, &constraints)
	}
	return &dto.QuestionResponse{
		ID:          q.ID,
		Key:         q.Key,
		Label:       q.Label,
		Hint:        q.Hint,
		Kind:        string(q.Kind),
		Required:    q.Required,
		Position:    q.Position,
		Active:      q.Active,
		Constraints: constraints,
	}
}

func toQuestionResponses(questions []models.ChefQuestion) []*dto.QuestionResponse {
	out := make([]*dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i]))
	}
	return out
}
