package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"tlh_backend/internal/logger"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
)

// staleGrace is how long past the verification TTL an awaiting_email review
// is kept before purging. Long enough that late clicks still get a proper
// "link expired" page instead of a dead link.
const staleGrace = 7 * 24 * time.Hour

// CleanupWorker purges reviews that were never email-verified. Runs nightly.
type CleanupWorker struct {
	db         *gorm.DB
	reviewRepo repositories.ReviewRepository
	tokenTTL   time.Duration
	cron       *cron.Cron
}

func NewCleanupWorker(db *gorm.DB, reviewRepo repositories.ReviewRepository, tokenTTL time.Duration) *CleanupWorker {
	return &CleanupWorker{
		db:         db,
		reviewRepo: reviewRepo,
		tokenTTL:   tokenTTL,
		cron:       cron.New(),
	}
}

func (w *CleanupWorker) Start() error {
	_, err := w.cron.AddFunc("15 3 * * *", func() {
		w.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	logger.Info("Review cleanup worker scheduled", "schedule", "15 3 * * *")
	return nil
}

func (w *CleanupWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// RunOnce deletes stale awaiting_email reviews and audits each removal.
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-(w.tokenTTL + staleGrace))

	err := w.db.Transaction(func(tx *gorm.DB) error {
		purged, err := w.reviewRepo.DeleteStaleAwaiting(tx, cutoff)
		if err != nil {
			return err
		}
		for _, rev := range purged {
			if err := w.reviewRepo.AppendEvent(tx, &models.ReviewEvent{
				ReviewID:   rev.ID,
				FromStatus: models.ReviewStatusAwaitingEmail,
				ToStatus:   models.ReviewStatusAwaitingEmail,
				Actor:      models.ReviewActorSystem,
				Note:       "purged: never verified",
			}); err != nil {
				return err
			}
		}
		if len(purged) > 0 {
			logger.CtxInfo(ctx, "purged unverified reviews", "count", len(purged), "cutoff", cutoff)
		}
		return nil
	})
	if err != nil {
		logger.CtxError(ctx, "review cleanup failed", "error", err)
	}
}
