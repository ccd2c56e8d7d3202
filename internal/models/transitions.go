package models

// Per-entity transition tables. Every status change in the service layer has
// to pass through one of these checks, and the repositories apply the change
// with a conditional UPDATE ... WHERE status = <from>, so a stale read can
// never overwrite a concurrent transition.

var chefTransitions = map[ChefStatus][]ChefStatus{
	ChefStatusPublished:   {ChefStatusUnpublished, ChefStatusDeleted},
	ChefStatusUnpublished: {ChefStatusPublished, ChefStatusDeleted},
	ChefStatusDeleted:     {},
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved: {},
	ApplicationStatusRejected: {},
}

var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewStatusAwaitingEmail: {ReviewStatusPublished, ReviewStatusSpam},
	ReviewStatusPublished:     {ReviewStatusSpam},
	ReviewStatusSpam:          {},
}

func contains[S ~string](list []S, v S) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionChef reports whether from -> to is an allowed chef transition.
func CanTransitionChef(from, to ChefStatus) bool {
	return contains(chefTransitions[from], to)
}

// CanTransitionApplication reports whether from -> to is allowed for applications.
func CanTransitionApplication(from, to ApplicationStatus) bool {
	return contains(applicationTransitions[from], to)
}

// CanTransitionReview reports whether from -> to is allowed for reviews.
func CanTransitionReview(from, to ReviewStatus) bool {
	return contains(reviewTransitions[from], to)
}
