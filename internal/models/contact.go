package models

// CustomerContact stores customer PII separately from inquiries so that
// consent/erasure requests only touch one row. Upserted by EmailHash.
type CustomerContact struct {
	BaseModel
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `json:"phone"`
	EmailHash string `gorm:"not null;uniqueIndex" json:"-"`
}

func (CustomerContact) TableName() string {
	return "customer_contacts"
}

// CustomerInquiry is a single contact-form submission referencing a contact.
type CustomerInquiry struct {
	BaseModel
	ContactID   string        `gorm:"not null;index" json:"contact_id"`
	ChefID      string        `gorm:"not null;index" json:"chef_id"`
	ServiceType string        `gorm:"not null" json:"service_type"`
	BudgetRange string        `json:"budget_range"`
	EventDate   string        `json:"event_date"`
	Message     string        `gorm:"type:text" json:"message"`
	Status      InquiryStatus `gorm:"type:varchar(20);default:'new'" json:"status"`

	// Relations
	Contact CustomerContact `gorm:"foreignKey:ContactID" json:"-"`
	Chef    Chef            `gorm:"foreignKey:ChefID" json:"-"`
}

func (CustomerInquiry) TableName() string {
	return "customer_inquiries"
}
