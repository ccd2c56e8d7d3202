package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic and
domain errors.
*/

// =========================================================================
// Factory FUNCTIONS (used to wrap errors coming out of repositories)
// =========================================================================

// ErrNotFound converts a repository not-found error (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a repository duplicate error into a 409 AppError.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation creates a 400 for operations the domain forbids.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus creates a 409 for status transitions not present in the
// entity's transition table.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrRateLimited creates a 429 for throttled submissions.
func ErrRateLimited(domain, message string) *AppError {
	return New(CodeLimitExceeded, domain, message, http.StatusTooManyRequests)
}

// =========================================================================
// Predefined VARIABLES (frequent, static errors)
// =========================================================================

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Chefs ---

// ErrChefNotPublished is returned when a public operation targets a chef that
// is not in a publicly-contactable state.
var ErrChefNotPublished = New(
	CodeNotFound,
	"chef",
	"Chef not found",
	http.StatusNotFound,
)

// --- Reviews ---

// ErrDuplicateReview: one review per chef and submitter email.
var ErrDuplicateReview = New(
	CodeAlreadyExists,
	"review",
	"You have already reviewed this chef",
	http.StatusConflict,
)

// ErrBotCheckFailed: the Turnstile challenge came back negative.
var ErrBotCheckFailed = New(
	CodeValidationFailed,
	"review",
	"Bot check failed. Please refresh the page and try again.",
	http.StatusBadRequest,
)

// ErrReviewRateLimited: too many submissions from the same address.
var ErrReviewRateLimited = New(
	CodeLimitExceeded,
	"review",
	"Too many reviews submitted. Please try again later.",
	http.StatusTooManyRequests,
)

// --- Applications ---

// ErrApplicationAlreadyDecided: approve/reject on a non-pending application.
var ErrApplicationAlreadyDecided = New(
	CodeInvalidStatus,
	"application",
	"Application has already been reviewed",
	http.StatusConflict,
)

// --- Uploads & files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
