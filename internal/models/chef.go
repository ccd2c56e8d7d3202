package models

import (
	"gorm.io/datatypes"
)

type Chef struct {
	BaseModel
	Name            string         `gorm:"not null" json:"name"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Phone           string         `json:"phone"`
	HourlyRate      float64        `json:"hourly_rate"`
	Location        string         `gorm:"index" json:"location"`
	ExperienceYears int            `json:"experience_years"`
	Languages       datatypes.JSON `json:"languages"` // ["English", "Farsi", ...]
	Cuisines        datatypes.JSON `json:"cuisines"`  // ["Persian", "Italian", ...]
	Verified        bool           `gorm:"default:false" json:"verified"`
	Status          ChefStatus     `gorm:"type:varchar(20);default:'unpublished';index" json:"status"`

	// Aggregates recomputed from published reviews
	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int64   `gorm:"default:0" json:"review_count"`

	// ApplicationID links back to the approved intake form, when any.
	ApplicationID *string `gorm:"index" json:"application_id,omitempty"`

	// Relations
	Photos  []ChefPhoto `gorm:"foreignKey:ChefID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Reviews []Review    `gorm:"foreignKey:ChefID;constraint:OnDelete:CASCADE" json:"-"`
}

// ChefPhoto is a stored image reference for a chef profile.
type ChefPhoto struct {
	BaseModel
	ChefID      string `gorm:"not null;index" json:"chef_id"`
	StoragePath string `gorm:"not null" json:"-"`
	URL         string `gorm:"not null" json:"url"`
	Position    int    `gorm:"default:0" json:"position"`
}

// IsPubliclyVisible reports whether the chef can appear in listings and
// accept reviews/inquiries.
func (c *Chef) IsPubliclyVisible() bool {
	return c.Status == ChefStatusPublished
}
