package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	Email   string `json:"email" validate:"required,email"`
	Rating  int    `json:"rating" validate:"star-rating"`
	Comment string `json:"comment" validate:"max=280"`
}

func TestValidate_StarRating(t *testing.T) {
	v := New()

	err := v.Validate(reviewForm{Email: "a@b.c", Rating: 0})
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Please select a rating from 1-5 stars", verr.Errors["rating"])

	assert.NoError(t, v.Validate(reviewForm{Email: "a@b.c", Rating: 5}))
	assert.Error(t, v.Validate(reviewForm{Email: "a@b.c", Rating: 6}))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(reviewForm{Rating: 3})
	require.Error(t, err)
	verr := err.(*ValidationError)
	_, ok := verr.Errors["email"]
	assert.True(t, ok, "errors keyed by json tag, not struct field")
}

type statusForm struct {
	Status string `json:"status" validate:"is-review-status"`
}

func TestValidate_ReviewStatusRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(statusForm{Status: "published"}))
	assert.NoError(t, v.Validate(statusForm{Status: ""}))
	assert.Error(t, v.Validate(statusForm{Status: "pending"}))
}
