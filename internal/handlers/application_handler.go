package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"tlh_backend/internal/logger"
	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/services"
	"tlh_backend/internal/services/dto"
	"tlh_backend/internal/validator"
	"tlh_backend/pkg/apperrors"
)

type ApplicationHandler struct {
	*BaseHandler
	appService services.ApplicationService
	authMW     gin.HandlerFunc
}

func NewApplicationHandler(base *BaseHandler, appService services.ApplicationService, authMW gin.HandlerFunc) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler: base,
		appService:  appService,
		authMW:      authMW,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public intake
	public := r.Group("/applications")
	{
		public.GET("/form", h.GetForm)
		public.POST("", h.SubmitApplication)
	}

	// Admin
	admin := r.Group("/admin/applications")
	admin.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		admin.GET("", h.ListApplications)
		admin.GET("/:appId", h.GetApplication)
		admin.POST("/:appId/approve", h.ApproveApplication)
		admin.POST("/:appId/reject", h.RejectApplication)
	}

	// Admin form management
	questions := r.Group("/admin/questions")
	questions.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		questions.GET("", h.ListQuestions)
		questions.POST("", h.CreateQuestion)
		questions.PUT("/:questionId", h.UpdateQuestion)
		questions.DELETE("/:questionId", h.DeactivateQuestion)
	}
}

// --- Public handlers ---

func (h *ApplicationHandler) GetForm(c *gin.Context) {
	db := h.GetDB(c)
	questions, err := h.appService.GetForm(db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitApplication accepts multipart/form-data: a "payload" JSON part for
// the answers plus optional "files" parts for photo/video uploads.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing 'payload' form field"))
		return
	}

	var req dto.SubmitApplicationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid payload JSON: "+err.Error()))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(c.Request.Context(), "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["files"]
	}

	db := h.GetDB(c)
	resp, err := h.appService.SubmitApplication(c.Request.Context(), db, &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// --- Admin handlers ---

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	status := models.ApplicationStatus(c.DefaultQuery("status", string(models.ApplicationStatusPending)))
	page, pageSize := h.GetPagination(c)

	db := h.GetDB(c)
	resp, err := h.appService.ListApplications(db, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	db := h.GetDB(c)
	resp, err := h.appService.GetApplication(db, c.Param("appId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)
	chef, err := h.appService.ApproveApplication(c.Request.Context(), db, adminID, c.Param("appId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application approved", "chef": chef})
}

func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.appService.RejectApplication(c.Request.Context(), db, adminID, c.Param("appId"), req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application rejected"})
}

// --- Form management ---

func (h *ApplicationHandler) ListQuestions(c *gin.Context) {
	db := h.GetDB(c)
	questions, err := h.appService.ListQuestions(db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *ApplicationHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	q, err := h.appService.CreateQuestion(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, q)
}

func (h *ApplicationHandler) UpdateQuestion(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	q, err := h.appService.UpdateQuestion(db, c.Param("questionId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

func (h *ApplicationHandler) DeactivateQuestion(c *gin.Context) {
	db := h.GetDB(c)
	if err := h.appService.DeactivateQuestion(db, c.Param("questionId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deactivated"})
}
