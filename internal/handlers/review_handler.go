package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/services"
	"tlh_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
	authMW        gin.HandlerFunc
	siteBaseURL   string
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService, authMW gin.HandlerFunc, siteBaseURL string) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
		authMW:        authMW,
		siteBaseURL:   siteBaseURL,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/reviews")
	{
		public.POST("", h.SubmitReview)
		public.GET("/chefs/:chefId", h.GetChefReviews)
	}

	// The email link target. GET because it is clicked from a mail client;
	// responds with redirects, never JSON.
	r.GET("/verify-review", h.VerifyReview)

	// Admin routes
	admin := r.Group("/admin/reviews")
	admin.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		admin.GET("", h.ListReviews)
		admin.POST("/:reviewId/publish", h.PublishReview)
		admin.POST("/:reviewId/spam", h.MarkSpam)
		admin.GET("/:reviewId/events", h.GetReviewEvents)
	}
}

// --- Public handlers ---

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	resp, err := h.reviewService.SubmitReview(c.Request.Context(), db, &req, c.ClientIP())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

func (h *ReviewHandler) GetChefReviews(c *gin.Context) {
	chefID := c.Param("chefId")
	page, pageSize := h.GetPagination(c)

	db := h.GetDB(c)
	resp, err := h.reviewService.GetChefReviews(db, chefID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyReview turns the service outcome into a browser redirect. The user
// clicked a link in an email, so every path must land on a page, not an
// error payload.
func (h *ReviewHandler) VerifyReview(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, h.siteBaseURL+"/?error=missing-token")
		return
	}

	db := h.GetDB(c)
	result := h.reviewService.VerifyReview(c.Request.Context(), db, token)

	switch result.Outcome {
	case dto.VerifyPublished:
		c.Redirect(http.StatusFound, h.siteBaseURL+"/chef/"+result.ChefID+"?success=review-published")
	case dto.VerifyAlreadyDone:
		c.Redirect(http.StatusFound, h.siteBaseURL+"/chef/"+result.ChefID+"?info=already-verified")
	case dto.VerifyExpired:
		c.Redirect(http.StatusFound, h.siteBaseURL+"/chef/"+result.ChefID+"?error=link-expired")
	case dto.VerifyFailed:
		c.Redirect(http.StatusFound, h.siteBaseURL+"/chef/"+result.ChefID+"?error=verification-failed")
	default:
		c.Redirect(http.StatusFound, h.siteBaseURL+"/?error=invalid-token")
	}
}

// --- Admin handlers ---

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	status := models.ReviewStatus(c.DefaultQuery("status", string(models.ReviewStatusAwaitingEmail)))
	page, pageSize := h.GetPagination(c)

	db := h.GetDB(c)
	resp, err := h.reviewService.ListReviews(db, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) PublishReview(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)
	if err := h.reviewService.PublishReview(c.Request.Context(), db, adminID, c.Param("reviewId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review published"})
}

func (h *ReviewHandler) MarkSpam(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)
	if err := h.reviewService.MarkSpam(c.Request.Context(), db, adminID, c.Param("reviewId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review marked as spam"})
}

func (h *ReviewHandler) GetReviewEvents(c *gin.Context) {
	db := h.GetDB(c)
	events, err := h.reviewService.GetReviewEvents(db, c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
