package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tlh_backend/internal/auth"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/services/dto"
	"tlh_backend/pkg/apperrors"
)

type AuthService interface {
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(db *gorm.DB, userID string) (*dto.AdminPublic, error)
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string, jwtTTL time.Duration) AuthService {
	return &authService{adminRepo: adminRepo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.adminRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			// Same answer as a wrong password.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, string(user.Role), s.jwtTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token: token,
		User: &dto.AdminPublic{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		},
	}, nil
}

func (s *authService) Me(db *gorm.DB, userID string) (*dto.AdminPublic, error) {
	user, err := s.adminRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminPublic{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}, nil
}
