package models

import "time"

type Review struct {
	BaseModel
	ChefID  string `gorm:"not null;index;uniqueIndex:idx_reviews_chef_email" json:"chef_id"`
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:varchar(280)" json:"comment"`

	// Privacy-preserving submitter identity: raw email/IP are never stored.
	EmailHash string `gorm:"not null;index;uniqueIndex:idx_reviews_chef_email" json:"-"`
	IPHash    string `gorm:"not null;index" json:"-"`

	Status      ReviewStatus `gorm:"type:varchar(20);default:'awaiting_email';index" json:"status"`
	VerifyToken string       `gorm:"index" json:"-"`
	TrustScore  float64      `gorm:"default:0" json:"-"`

	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Relations
	Chef Chef `gorm:"foreignKey:ChefID" json:"-"`
}

// Review event actors
const (
	ReviewActorSubmitter = "submitter"
	ReviewActorAdmin     = "admin"
	ReviewActorSystem    = "system"
)

// ReviewEvent is an append-only audit record of review status transitions.
// Rows are never mutated or deleted. FromStatus == ToStatus marks a recorded
// non-transition (e.g. an expired verification attempt).
type ReviewEvent struct {
	ID         string       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReviewID   string       `gorm:"not null;index" json:"review_id"`
	FromStatus ReviewStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   ReviewStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	Actor      string       `gorm:"not null" json:"actor"`
	Note       string       `json:"note"`
	CreatedAt  time.Time    `gorm:"default:now()" json:"created_at"`
}
