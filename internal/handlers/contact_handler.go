package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/services"
	"tlh_backend/internal/services/dto"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
	authMW         gin.HandlerFunc
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService, authMW gin.HandlerFunc) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
		authMW:         authMW,
	}
}

func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/inquiries", h.SubmitInquiry)

	admin := r.Group("/admin/inquiries")
	admin.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		admin.GET("", h.ListInquiries)
		admin.PATCH("/:inquiryId/status", h.SetInquiryStatus)
	}
}

func (h *ContactHandler) SubmitInquiry(c *gin.Context) {
	var req dto.SubmitInquiryRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	resp, err := h.contactService.SubmitInquiry(c.Request.Context(), db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// --- Admin handlers ---

func (h *ContactHandler) ListInquiries(c *gin.Context) {
	status := models.InquiryStatus(c.Query("status"))
	page, pageSize := h.GetPagination(c)

	db := h.GetDB(c)
	resp, err := h.contactService.ListInquiries(db, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) SetInquiryStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=new read replied"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.contactService.SetInquiryStatus(db, c.Param("inquiryId"), models.InquiryStatus(req.Status)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inquiry updated"})
}
