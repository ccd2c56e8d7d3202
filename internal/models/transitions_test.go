package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChefTransitions(t *testing.T) {
	assert.True(t, CanTransitionChef(ChefStatusUnpublished, ChefStatusPublished))
	assert.True(t, CanTransitionChef(ChefStatusPublished, ChefStatusUnpublished))
	assert.True(t, CanTransitionChef(ChefStatusPublished, ChefStatusDeleted))

	// deleted is terminal
	assert.False(t, CanTransitionChef(ChefStatusDeleted, ChefStatusPublished))
	assert.False(t, CanTransitionChef(ChefStatusDeleted, ChefStatusUnpublished))

	// no self transitions
	assert.False(t, CanTransitionChef(ChefStatusPublished, ChefStatusPublished))
}

func TestApplicationTransitions(t *testing.T) {
	assert.True(t, CanTransitionApplication(ApplicationStatusPending, ApplicationStatusApproved))
	assert.True(t, CanTransitionApplication(ApplicationStatusPending, ApplicationStatusRejected))

	// decisions are final
	assert.False(t, CanTransitionApplication(ApplicationStatusApproved, ApplicationStatusRejected))
	assert.False(t, CanTransitionApplication(ApplicationStatusRejected, ApplicationStatusApproved))
	assert.False(t, CanTransitionApplication(ApplicationStatusApproved, ApplicationStatusPending))
}

func TestReviewTransitions(t *testing.T) {
	assert.True(t, CanTransitionReview(ReviewStatusAwaitingEmail, ReviewStatusPublished))
	assert.True(t, CanTransitionReview(ReviewStatusAwaitingEmail, ReviewStatusSpam))
	assert.True(t, CanTransitionReview(ReviewStatusPublished, ReviewStatusSpam))

	assert.False(t, CanTransitionReview(ReviewStatusSpam, ReviewStatusPublished))
	assert.False(t, CanTransitionReview(ReviewStatusPublished, ReviewStatusAwaitingEmail))
	assert.False(t, CanTransitionReview(ReviewStatusSpam, ReviewStatusAwaitingEmail))
}
