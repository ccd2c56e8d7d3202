package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"tlh_backend/internal/models"
)

// registerCustomRules wires all custom validation tags into the validator
// instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Registration only fails on programmer error (empty tag),
			// which must not survive startup.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-chef-status", validateChefStatus)
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-review-status", validateReviewStatus)
	mustRegister("is-question-kind", validateQuestionKind)
	mustRegister("star-rating", validateStarRating)
}

func validateChefStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	switch models.ChefStatus(value) {
	case models.ChefStatusPublished, models.ChefStatusUnpublished, models.ChefStatusDeleted:
		return true
	default:
		return false
	}
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ApplicationStatus(value) {
	case models.ApplicationStatusPending, models.ApplicationStatusApproved, models.ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ReviewStatus(value) {
	case models.ReviewStatusAwaitingEmail, models.ReviewStatusPublished, models.ReviewStatusSpam:
		return true
	default:
		return false
	}
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.QuestionKind(value) {
	case models.QuestionKindText, models.QuestionKindNumber, models.QuestionKindPhoto, models.QuestionKindVideo:
		return true
	default:
		return false
	}
}

// validateStarRating rejects out-of-range ratings including the zero value,
// which is what an untouched star widget submits.
func validateStarRating(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= 1 && v <= 5
}
