package dto

import "time"

type SubmitInquiryRequest struct {
	ChefID      string `json:"chefId" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	ServiceType string `json:"serviceType" validate:"required,max=100"`
	BudgetRange string `json:"budgetRange" validate:"max=100"`
	EventDate   string `json:"eventDate" validate:"max=40"`
	Message     string `json:"message" validate:"max=2000"`
}

// SubmitInquiryResponse hands the client a prefilled WhatsApp deep link to
// continue the conversation on.
type SubmitInquiryResponse struct {
	InquiryID   string `json:"inquiryId"`
	WhatsAppURL string `json:"whatsappUrl"`
}

type InquiryResponse struct {
	ID           string    `json:"id"`
	ChefID       string    `json:"chefId"`
	ContactName  string    `json:"contactName"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ServiceType  string    `json:"serviceType"`
	BudgetRange  string    `json:"budgetRange,omitempty"`
	EventDate    string    `json:"eventDate,omitempty"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type InquiryListResponse struct {
	Inquiries []*InquiryResponse `json:"inquiries"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"pageSize"`
}
