package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tlh_backend/internal/email"
	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/revalidate"
	"tlh_backend/internal/security"
	"tlh_backend/internal/services/dto"
	"tlh_backend/internal/turnstile"
	"tlh_backend/pkg/apperrors"
)

type ReviewService interface {
	// SubmitReview runs the public submission pipeline and leaves the review
	// in awaiting_email with a verification mail on its way.
	SubmitReview(ctx context.Context, db *gorm.DB, req *dto.SubmitReviewRequest, clientIP string) (*dto.SubmitReviewResponse, error)

	// VerifyReview resolves a verification link click into a redirect
	// decision. It never returns an error: every failure maps to an outcome.
	VerifyReview(ctx context.Context, db *gorm.DB, token string) *dto.VerifyResult

	GetChefReviews(db *gorm.DB, chefID string, page, pageSize int) (*dto.ReviewListResponse, error)

	// Admin moderation
	ListReviews(db *gorm.DB, status models.ReviewStatus, page, pageSize int) (*dto.ReviewListResponse, error)
	PublishReview(ctx context.Context, db *gorm.DB, adminID, reviewID string) error
	MarkSpam(ctx context.Context, db *gorm.DB, adminID, reviewID string) error
	GetReviewEvents(db *gorm.DB, reviewID string) ([]*dto.ReviewEventResponse, error)
}

// ReviewConfig carries the submission-pipeline knobs from app config.
type ReviewConfig struct {
	RateLimit  int
	RateWindow time.Duration
	BaseURL    string
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	chefRepo   repositories.ChefRepository
	signer     *security.TokenSigner
	verifier   turnstile.Verifier
	sender     email.Sender
	revalidate *revalidate.Client
	cfg        ReviewConfig
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	chefRepo repositories.ChefRepository,
	signer *security.TokenSigner,
	verifier turnstile.Verifier,
	sender email.Sender,
	reval *revalidate.Client,
	cfg ReviewConfig,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		chefRepo:   chefRepo,
		signer:     signer,
		verifier:   verifier,
		sender:     sender,
		revalidate: reval,
		cfg:        cfg,
	}
}

// ---------------- Submission ----------------

// SubmitReview checks, in order: bot challenge, duplicate by (chef, email
// hash), IP rate limit, chef visibility. Only then does it persist and mail.
// The order is observable: a duplicate from a rate-limited IP still reports
// the duplicate.
func (s *reviewService) SubmitReview(ctx context.Context, db *gorm.DB, req *dto.SubmitReviewRequest, clientIP string) (*dto.SubmitReviewResponse, error) {
	botResult := s.verifier.Verify(ctx, req.TurnstileToken, clientIP)
	if !botResult.Passed {
		return nil, apperrors.ErrBotCheckFailed
	}

	emailHash := security.HashEmail(req.Email)
	ipHash := security.HashIP(clientIP)

	if _, err := s.reviewRepo.FindByChefAndEmailHash(db, req.ChefID, emailHash); err == nil {
		return nil, apperrors.ErrDuplicateReview
	} else if !errors.Is(err, repositories.ErrReviewNotFound) {
		return nil, apperrors.InternalError(err)
	}

	recent, err := s.reviewRepo.CountRecentByIPHash(db, ipHash, s.cfg.RateWindow)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if recent >= int64(s.cfg.RateLimit) {
		return nil, apperrors.ErrReviewRateLimited
	}

	chef, err := s.chefRepo.FindPublishedByID(db, req.ChefID)
	if err != nil {
		if errors.Is(err, repositories.ErrChefNotFound) {
			return nil, apperrors.ErrChefNotPublished
		}
		return nil, apperrors.InternalError(err)
	}

	// The id is minted in-process so the signed token can be stored in the
	// same insert; the row never exists without its verification token.
	reviewID := uuid.New().String()
	token := s.signer.Sign(reviewID, req.Email)

	review := &models.Review{
		ChefID:      req.ChefID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		EmailHash:   emailHash,
		IPHash:      ipHash,
		Status:      models.ReviewStatusAwaitingEmail,
		TrustScore:  botResult.Trust,
		VerifyToken: token,
	}
	review.ID = reviewID
	if err := s.reviewRepo.Create(db, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSubmission) {
			// Lost the race against a concurrent submission from the same
			// email; same answer as the explicit check above.
			return nil, apperrors.ErrDuplicateReview
		}
		return nil, apperrors.InternalError(err)
	}

	s.appendEvent(ctx, db, review.ID, models.ReviewStatusAwaitingEmail, models.ReviewStatusAwaitingEmail,
		models.ReviewActorSubmitter, "review submitted, verification email queued")

	verifyURL := fmt.Sprintf("%s/api/verify-review?token=%s", s.cfg.BaseURL, url.QueryEscape(token))
	if err := s.sender.SendReviewVerification(req.Email, chef.Name, verifyURL); err != nil {
		// Without the email the review can never be verified; roll the row
		// back so the submitter can retry instead of hitting the duplicate
		// check forever.
		logger.CtxError(ctx, "verification email failed, removing review", "review_id", review.ID, "error", err)
		if delErr := s.reviewRepo.Delete(db, review.ID); delErr != nil {
			logger.CtxError(ctx, "compensating delete failed", "review_id", review.ID, "error", delErr)
		}
		return nil, apperrors.New(apperrors.CodeExternalServiceError, "review",
			"We could not send the verification email. Please try again.", 502)
	}

	if botResult.Degraded {
		logger.CtxWarn(ctx, "review accepted with degraded bot check", "review_id", review.ID)
	}

	return &dto.SubmitReviewResponse{
		ReviewID: review.ID,
		Status:   string(models.ReviewStatusAwaitingEmail),
		Message:  "Check your inbox to confirm your review.",
	}, nil
}

// ---------------- Verification ----------------

// VerifyReview decodes the token first and only then touches the database.
// A signed-but-expired token is audited against its review; forgeries are
// dropped without a lookup.
func (s *reviewService) VerifyReview(ctx context.Context, db *gorm.DB, token string) *dto.VerifyResult {
	payload, expired, err := s.signer.Decode(token)
	if err != nil {
		logger.CtxInfo(ctx, "verification rejected: bad token")
		return &dto.VerifyResult{Outcome: dto.VerifyInvalid}
	}

	review, err := s.reviewRepo.FindByID(db, payload.RecordID)
	if err != nil {
		// Stale-review cleanup may have purged it.
		logger.CtxInfo(ctx, "verification rejected: review gone", "review_id", payload.RecordID)
		return &dto.VerifyResult{Outcome: dto.VerifyNotFound}
	}

	// Status checks come before the expiry check: a re-click on an already
	// published review reads as already-verified even if the link has since
	// expired.
	if review.Status == models.ReviewStatusPublished {
		return &dto.VerifyResult{Outcome: dto.VerifyAlreadyDone, ChefID: review.ChefID}
	}
	if review.Status != models.ReviewStatusAwaitingEmail {
		return &dto.VerifyResult{Outcome: dto.VerifyFailed, ChefID: review.ChefID}
	}

	if expired {
		s.appendEvent(ctx, db, review.ID, review.Status, review.Status,
			models.ReviewActorSystem, "verification link expired")
		return &dto.VerifyResult{Outcome: dto.VerifyExpired, ChefID: review.ChefID}
	}

	now := time.Now()
	var published bool
	txErr := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.reviewRepo.UpdateStatusIf(tx, review.ID,
			models.ReviewStatusAwaitingEmail, models.ReviewStatusPublished,
			map[string]interface{}{
				"verified_at":  now,
				"published_at": now,
			})
		if err != nil {
			return err
		}
		published = ok
		if !ok {
			return nil
		}
		return s.reviewRepo.AppendEvent(tx, &models.ReviewEvent{
			ReviewID:   review.ID,
			FromStatus: models.ReviewStatusAwaitingEmail,
			ToStatus:   models.ReviewStatusPublished,
			Actor:      models.ReviewActorSubmitter,
			Note:       "email verified",
		})
	})
	if txErr != nil {
		logger.CtxError(ctx, "verification transaction failed", "review_id", review.ID, "error", txErr)
		return &dto.VerifyResult{Outcome: dto.VerifyFailed, ChefID: review.ChefID}
	}
	if !published {
		// Concurrent click won the compare-and-set.
		return &dto.VerifyResult{Outcome: dto.VerifyAlreadyDone, ChefID: review.ChefID}
	}

	// The aggregates trail the publication: a recompute failure must not
	// undo a successful verification.
	if err := s.reviewRepo.RecalculateChefRating(db, review.ChefID); err != nil {
		logger.CtxError(ctx, "rating recompute failed after publish", "chef_id", review.ChefID, "error", err)
	}

	if s.revalidate != nil {
		s.revalidate.ChefPage(ctx, review.ChefID)
	}
	logger.CtxInfo(ctx, "review published", "review_id", review.ID, "chef_id", review.ChefID)
	return &dto.VerifyResult{Outcome: dto.VerifyPublished, ChefID: review.ChefID}
}

// ---------------- Reads ----------------

func (s *reviewService) GetChefReviews(db *gorm.DB, chefID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	page, pageSize = normalizePaging(page, pageSize)

	reviews, total, err := s.reviewRepo.FindPublishedByChef(db, chefID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ReviewListResponse{
		Reviews:  toReviewResponses(reviews, false),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ---------------- Moderation ----------------

func (s *reviewService) ListReviews(db *gorm.DB, status models.ReviewStatus, page, pageSize int) (*dto.ReviewListResponse, error) {
	page, pageSize = normalizePaging(page, pageSize)

	reviews, total, err := s.reviewRepo.ListByStatus(db, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ReviewListResponse{
		Reviews:  toReviewResponses(reviews, true),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// PublishReview is the admin override for the email gate: it publishes a
// review that is still awaiting verification, for cases where the submitter
// confirmed through another channel.
func (s *reviewService) PublishReview(ctx context.Context, db *gorm.DB, adminID, reviewID string) error {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !models.CanTransitionReview(review.Status, models.ReviewStatusPublished) {
		return apperrors.ErrInvalidStatus("review",
			fmt.Sprintf("cannot publish a %s review", review.Status))
	}

	now := time.Now()
	txErr := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.reviewRepo.UpdateStatusIf(tx, reviewID, review.Status, models.ReviewStatusPublished,
			map[string]interface{}{"published_at": now})
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.ErrInvalidStatus("review", "review changed state, retry")
		}
		return s.reviewRepo.AppendEvent(tx, &models.ReviewEvent{
			ReviewID:   reviewID,
			FromStatus: review.Status,
			ToStatus:   models.ReviewStatusPublished,
			Actor:      models.ReviewActorAdmin,
			Note:       "published by " + adminID,
		})
	})
	if txErr != nil {
		return txErr
	}

	if err := s.reviewRepo.RecalculateChefRating(db, review.ChefID); err != nil {
		logger.CtxError(ctx, "rating recompute failed after publish", "chef_id", review.ChefID, "error", err)
	}

	logger.CtxInfo(ctx, "review published by admin", "review_id", reviewID, "admin_id", adminID)
	if s.revalidate != nil {
		s.revalidate.ChefPage(ctx, review.ChefID)
	}
	return nil
}

// MarkSpam moves a review to spam from any state that allows it and drops
// it out of the chef's aggregates.
func (s *reviewService) MarkSpam(ctx context.Context, db *gorm.DB, adminID, reviewID string) error {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !models.CanTransitionReview(review.Status, models.ReviewStatusSpam) {
		return apperrors.ErrInvalidStatus("review",
			fmt.Sprintf("cannot mark a %s review as spam", review.Status))
	}

	return db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.reviewRepo.UpdateStatusIf(tx, reviewID, review.Status, models.ReviewStatusSpam, nil)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.ErrInvalidStatus("review", "review changed state, retry")
		}
		if err := s.reviewRepo.RecalculateChefRating(tx, review.ChefID); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.reviewRepo.AppendEvent(tx, &models.ReviewEvent{
			ReviewID:   reviewID,
			FromStatus: review.Status,
			ToStatus:   models.ReviewStatusSpam,
			Actor:      models.ReviewActorAdmin,
			Note:       "marked as spam by " + adminID,
		}); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *reviewService) GetReviewEvents(db *gorm.DB, reviewID string) ([]*dto.ReviewEventResponse, error) {
	if _, err := s.reviewRepo.FindByID(db, reviewID); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	events, err := s.reviewRepo.EventsForReview(db, reviewID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ReviewEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, &dto.ReviewEventResponse{
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			Actor:      e.Actor,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}

// ---------------- Helpers ----------------

// appendEvent records an audit row outside the critical path; failures are
// logged, not surfaced.
func (s *reviewService) appendEvent(ctx context.Context, db *gorm.DB, reviewID string, from, to models.ReviewStatus, actor, note string) {
	err := s.reviewRepo.AppendEvent(db, &models.ReviewEvent{
		ReviewID:   reviewID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Note:       note,
	})
	if err != nil {
		logger.CtxWarn(ctx, "failed to append review event", "review_id", reviewID, "error", err)
	}
}

func toReviewResponses(reviews []models.Review, includeStatus bool) []*dto.ReviewResponse {
	out := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		resp := &dto.ReviewResponse{
			ID:          r.ID,
			ChefID:      r.ChefID,
			Rating:      r.Rating,
			Comment:     r.Comment,
			PublishedAt: r.PublishedAt,
			CreatedAt:   r.CreatedAt,
		}
		if includeStatus {
			resp.Status = string(r.Status)
		}
		out = append(out, resp)
	}
	return out
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
