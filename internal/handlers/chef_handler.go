package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/services"
	"tlh_backend/internal/services/dto"
	"tlh_backend/pkg/apperrors"
)

type ChefHandler struct {
	*BaseHandler
	chefService services.ChefService
	authMW      gin.HandlerFunc
}

func NewChefHandler(base *BaseHandler, chefService services.ChefService, authMW gin.HandlerFunc) *ChefHandler {
	return &ChefHandler{
		BaseHandler: base,
		chefService: chefService,
		authMW:      authMW,
	}
}

func (h *ChefHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public directory
	public := r.Group("/chefs")
	{
		public.GET("", h.ListChefs)
		public.GET("/:chefId", h.GetChef)
	}

	// Admin
	admin := r.Group("/admin/chefs")
	admin.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		admin.GET("", h.ListChefsAdmin)
		admin.GET("/:chefId", h.GetChefAdmin)
		admin.PUT("/:chefId", h.UpdateChef)
		admin.POST("/:chefId/publish", h.PublishChef)
		admin.POST("/:chefId/unpublish", h.UnpublishChef)
		admin.DELETE("/:chefId", h.DeleteChef)
		admin.DELETE("/:chefId/permanent", h.PermanentlyDeleteChef)
		admin.POST("/:chefId/photos", h.UploadPhoto)
		admin.DELETE("/:chefId/photos/:photoId", h.DeletePhoto)
	}
}

// --- Public handlers ---

func (h *ChefHandler) ListChefs(c *gin.Context) {
	var query dto.ChefListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	db := h.GetDB(c)
	resp, err := h.chefService.ListChefs(db, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChefHandler) GetChef(c *gin.Context) {
	db := h.GetDB(c)
	resp, err := h.chefService.GetChef(db, c.Param("chefId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- Admin handlers ---

func (h *ChefHandler) ListChefsAdmin(c *gin.Context) {
	status := models.ChefStatus(c.Query("status"))
	page, pageSize := h.GetPagination(c)

	db := h.GetDB(c)
	resp, err := h.chefService.ListChefsAdmin(db, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChefHandler) GetChefAdmin(c *gin.Context) {
	db := h.GetDB(c)
	resp, err := h.chefService.GetChefAdmin(db, c.Param("chefId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChefHandler) UpdateChef(c *gin.Context) {
	var req dto.UpdateChefRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	resp, err := h.chefService.UpdateChef(c.Request.Context(), db, c.Param("chefId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChefHandler) PublishChef(c *gin.Context) {
	h.setStatus(c, models.ChefStatusPublished, "Chef published")
}

func (h *ChefHandler) UnpublishChef(c *gin.Context) {
	h.setStatus(c, models.ChefStatusUnpublished, "Chef unpublished")
}

func (h *ChefHandler) DeleteChef(c *gin.Context) {
	h.setStatus(c, models.ChefStatusDeleted, "Chef deleted")
}

// PermanentlyDeleteChef removes the chef and everything attached to it.
func (h *ChefHandler) PermanentlyDeleteChef(c *gin.Context) {
	db := h.GetDB(c)
	if err := h.chefService.PermanentlyDeleteChef(c.Request.Context(), db, c.Param("chefId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chef permanently deleted"})
}

func (h *ChefHandler) setStatus(c *gin.Context, to models.ChefStatus, message string) {
	db := h.GetDB(c)
	if err := h.chefService.SetChefStatus(c.Request.Context(), db, c.Param("chefId"), to); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ChefHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing 'photo' file field"))
		return
	}

	db := h.GetDB(c)
	url, err := h.chefService.UploadPhoto(c.Request.Context(), db, c.Param("chefId"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *ChefHandler) DeletePhoto(c *gin.Context) {
	db := h.GetDB(c)
	if err := h.chefService.DeletePhoto(c.Request.Context(), db, c.Param("chefId"), c.Param("photoId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}
