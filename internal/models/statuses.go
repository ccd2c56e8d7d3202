package models

type ChefStatus string
type ApplicationStatus string
type ReviewStatus string
type InquiryStatus string
type AdminRole string
type QuestionKind string

const (
	ChefStatusPublished   ChefStatus = "published"
	ChefStatusUnpublished ChefStatus = "unpublished"
	ChefStatusDeleted     ChefStatus = "deleted"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	ReviewStatusAwaitingEmail ReviewStatus = "awaiting_email"
	ReviewStatusPublished     ReviewStatus = "published"
	ReviewStatusSpam          ReviewStatus = "spam"

	InquiryStatusNew     InquiryStatus = "new"
	InquiryStatusRead    InquiryStatus = "read"
	InquiryStatusReplied InquiryStatus = "replied"

	AdminRoleAdmin AdminRole = "admin"

	QuestionKindText   QuestionKind = "text"
	QuestionKindNumber QuestionKind = "number"
	QuestionKindPhoto  QuestionKind = "photo"
	QuestionKindVideo  QuestionKind = "video"
)
