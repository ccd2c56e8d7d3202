package models

// AdminUser is a back-office account. There is no public registration: the
// first admin is seeded from the environment and further accounts are
// created by existing admins.
type AdminUser struct {
	BaseModel
	Name         string    `json:"name"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         AdminRole `gorm:"type:varchar(20);default:'admin'" json:"role"`
}
