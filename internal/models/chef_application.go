package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChefApplication holds a prospective chef's raw intake form. A Chef row is
// only created once an admin approves the application.
type ChefApplication struct {
	BaseModel
	ApplicantName  string `gorm:"not null" json:"applicant_name"`
	ApplicantEmail string `gorm:"not null;index" json:"applicant_email"`
	ApplicantPhone string `json:"applicant_phone"`

	// Answers is keyed by ChefQuestion.Key.
	Answers datatypes.JSON `json:"answers"`

	// FileRefs holds storage paths of uploaded photos/videos.
	FileRefs datatypes.JSON `json:"file_refs"`

	Status       ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AdminNotes   string            `gorm:"type:text" json:"admin_notes"`
	RejectReason *string           `json:"reject_reason,omitempty"`
	ReviewedBy   *string           `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
}

// ChefQuestion is an admin-configured field descriptor driving the dynamic
// application form. Rendering and validation key off Key and Kind, never off
// the display label.
type ChefQuestion struct {
	BaseModel
	Key      string       `gorm:"not null;uniqueIndex" json:"key"`
	Label    string       `gorm:"not null" json:"label"`
	Hint     string       `json:"hint"`
	Kind     QuestionKind `gorm:"type:varchar(10);default:'text'" json:"kind"`
	Required bool         `gorm:"default:false" json:"required"`
	Position int          `gorm:"default:0" json:"position"`
	Active   bool         `gorm:"default:true" json:"active"`

	// Constraints holds kind-specific limits, e.g. {"max_len":500} for text
	// or {"min":0,"max":50} for number.
	Constraints datatypes.JSON `json:"constraints,omitempty"`
}
