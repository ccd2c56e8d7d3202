package dto

import "time"

// SubmitReviewRequest is the public review submission body. IP and the
// Turnstile token are transport-level inputs carried alongside, not part of
// the validated form.
type SubmitReviewRequest struct {
	ChefID         string `json:"chefId" validate:"required,uuid4"`
	Rating         int    `json:"rating" validate:"star-rating"`
	Comment        string `json:"comment" validate:"max=280"`
	Email          string `json:"email" validate:"required,email"`
	TurnstileToken string `json:"turnstileToken"`
}

type SubmitReviewResponse struct {
	ReviewID string `json:"reviewId"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type ReviewResponse struct {
	ID          string     `json:"id"`
	ChefID      string     `json:"chefId"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	Status      string     `json:"status,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type ReviewListResponse struct {
	Reviews  []*ReviewResponse `json:"reviews"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

type ReviewEventResponse struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Actor      string    `json:"actor"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VerifyOutcome tells the handler which redirect to issue. The handler never
// inspects errors to choose a redirect; the service decides.
type VerifyOutcome int

const (
	VerifyPublished VerifyOutcome = iota
	VerifyAlreadyDone
	VerifyExpired
	VerifyInvalid
	VerifyNotFound
	VerifyFailed
)

type VerifyResult struct {
	Outcome VerifyOutcome
	ChefID  string
}
