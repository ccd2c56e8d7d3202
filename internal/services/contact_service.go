package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/security"
	"tlh_backend/internal/services/dto"
	"tlh_backend/pkg/apperrors"
)

type ContactService interface {
	// SubmitInquiry records the inquiry and returns a WhatsApp deep link to
	// the chef with a prefilled message.
	SubmitInquiry(ctx context.Context, db *gorm.DB, req *dto.SubmitInquiryRequest) (*dto.SubmitInquiryResponse, error)

	// Admin
	ListInquiries(db *gorm.DB, status models.InquiryStatus, page, pageSize int) (*dto.InquiryListResponse, error)
	SetInquiryStatus(db *gorm.DB, id string, status models.InquiryStatus) error
}

type contactService struct {
	contactRepo repositories.ContactRepository
	chefRepo    repositories.ChefRepository
}

func NewContactService(contactRepo repositories.ContactRepository, chefRepo repositories.ChefRepository) ContactService {
	return &contactService{contactRepo: contactRepo, chefRepo: chefRepo}
}

func (s *contactService) SubmitInquiry(ctx context.Context, db *gorm.DB, req *dto.SubmitInquiryRequest) (*dto.SubmitInquiryResponse, error) {
	chef, err := s.chefRepo.FindPublishedByID(db, req.ChefID)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return nil, apperrors.ErrChefNotPublished
		}
		return nil, apperrors.InternalError(err)
	}

	contact := &models.CustomerContact{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		EmailHash: security.HashEmail(req.Email),
	}

	var inquiry *models.CustomerInquiry
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.contactRepo.UpsertContact(tx, contact); err != nil {
			return err
		}
		inquiry = &models.CustomerInquiry{
			ContactID:   contact.ID,
			ChefID:      chef.ID,
			ServiceType: req.ServiceType,
			BudgetRange: req.BudgetRange,
			EventDate:   req.EventDate,
			Message:     req.Message,
			Status:      models.InquiryStatusNew,
		}
		return s.contactRepo.CreateInquiry(tx, inquiry)
	})
	if txErr != nil {
		return nil, apperrors.InternalError(txErr)
	}

	logger.CtxInfo(ctx, "inquiry recorded", "inquiry_id", inquiry.ID, "chef_id", chef.ID)
	return &dto.SubmitInquiryResponse{
		InquiryID:   inquiry.ID,
		WhatsAppURL: BuildWhatsAppLink(chef.Phone, req.Name, chef.Name, req.ServiceType, req.EventDate),
	}, nil
}

// BuildWhatsAppLink assembles a wa.me deep link with a prefilled greeting.
// The phone is reduced to digits as wa.me requires.
func BuildWhatsAppLink(chefPhone, customerName, chefName, serviceType, eventDate string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, chefPhone)

	msg := fmt.Sprintf("Hi %s! I'm %s, I found you on Tastes Like Home and I'm interested in %s.",
		chefName, customerName, serviceType)
	if eventDate != "" {
		msg += fmt.Sprintf(" The event is on %s.", eventDate)
	}

	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(msg))
}

// ---------------- Admin ----------------

func (s *contactService) ListInquiries(db *gorm.DB, status models.InquiryStatus, page, pageSize int) (*dto.InquiryListResponse, error) {
	page, pageSize = normalizePaging(page, pageSize)

	inquiries, total, err := s.contactRepo.ListInquiries(db, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		q := &inquiries[i]
		out = append(out, &dto.InquiryResponse{
			ID:           q.ID,
			ChefID:       q.ChefID,
			ContactName:  q.Contact.Name,
			ContactEmail: q.Contact.Email,
			ContactPhone: q.Contact.Phone,
			ServiceType:  q.ServiceType,
			BudgetRange:  q.BudgetRange,
			EventDate:    q.EventDate,
			Message:      q.Message,
			Status:       string(q.Status),
			CreatedAt:    q.CreatedAt,
		})
	}
	return &dto.InquiryListResponse{
		Inquiries: out,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

func (s *contactService) SetInquiryStatus(db *gorm.DB, id string, status models.InquiryStatus) error {
	if err := s.contactRepo.UpdateInquiryStatus(db, id, status); err != nil {
		if errors.Is(err, repositories.ErrInquiryNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
