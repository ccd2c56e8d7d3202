package dto

import "time"

type SubmitApplicationRequest struct {
	Name    string                 `json:"name" validate:"required,min=2,max=100"`
	Email   string                 `json:"email" validate:"required,email"`
	Phone   string                 `json:"phone" validate:"omitempty,max=32"`
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

type ApplicationResponse struct {
	ID             string                 `json:"id"`
	ApplicantName  string                 `json:"applicantName"`
	ApplicantEmail string                 `json:"applicantEmail"`
	ApplicantPhone string                 `json:"applicantPhone,omitempty"`
	Answers        map[string]interface{} `json:"answers"`
	FileRefs       []string               `json:"fileRefs,omitempty"`
	Status         string                 `json:"status"`
	AdminNotes     string                 `json:"adminNotes,omitempty"`
	RejectReason   *string                `json:"rejectReason,omitempty"`
	ReviewedAt     *time.Time             `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"pageSize"`
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type QuestionResponse struct {
	ID          string                 `json:"id"`
	Key         string                 `json:"key"`
	Label       string                 `json:"label"`
	Hint        string                 `json:"hint,omitempty"`
	Kind        string                 `json:"kind"`
	Required    bool                   `json:"required"`
	Position    int                    `json:"position"`
	Active      bool                   `json:"active"`
	Constraints map[string]interface{} `json:"constraints,omitempty"`
}

type CreateQuestionRequest struct {
	Key         string                 `json:"key" validate:"required,min=2,max=64"`
	Label       string                 `json:"label" validate:"required,max=200"`
	Hint        string                 `json:"hint" validate:"max=500"`
	Kind        string                 `json:"kind" validate:"required,is-question-kind"`
	Required    bool                   `json:"required"`
	Position    int                    `json:"position"`
	Constraints map[string]interface{} `json:"constraints"`
}

type UpdateQuestionRequest struct {
	Label       *string                `json:"label" validate:"omitempty,max=200"`
	Hint        *string                `json:"hint" validate:"omitempty,max=500"`
	Required    *bool                  `json:"required"`
	Position    *int                   `json:"position"`
	Active      *bool                  `json:"active"`
	Constraints map[string]interface{} `json:"constraints"`
}
