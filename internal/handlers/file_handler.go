package handlers

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/storage"
	"tlh_backend/pkg/apperrors"
)

// FileHandler serves stored media by storage path. With local storage this
// is the only way uploads reach a browser; with S3 the public URLs point at
// the bucket and this handler is a fallback.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
	authMW  gin.HandlerFunc
}

func NewFileHandler(base *BaseHandler, store storage.Storage, authMW gin.HandlerFunc) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
		authMW:      authMW,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public assets (chef photos). Application intake uploads are private
	// and only reachable through the admin route.
	r.GET("/files/*filePath", h.ServeFile)

	admin := r.Group("/admin/files")
	admin.Use(h.authMW, middleware.RoleMiddleware(models.AdminRoleAdmin))
	{
		admin.GET("/*filePath", h.ServeAdminFile)
	}
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	path, ok := cleanFilePath(c.Param("filePath"))
	if !ok {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	// Intake uploads look like missing files from the outside.
	if strings.HasPrefix(path, "applications/") {
		apperrors.HandleError(c, apperrors.ErrNotFound(errors.New("file not found")))
		return
	}

	h.stream(c, path)
}

func (h *FileHandler) ServeAdminFile(c *gin.Context) {
	path, ok := cleanFilePath(c.Param("filePath"))
	if !ok {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	h.stream(c, path)
}

func (h *FileHandler) stream(c *gin.Context, path string) {
	reader, err := h.storage.Get(c.Request.Context(), path)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	// Paths carry a uuid, so content at a path never changes.
	c.Header("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing useful left to send.
		_ = c.Error(err)
	}
}

// cleanFilePath strips the wildcard's leading slash and rejects traversal.
func cleanFilePath(raw string) (string, bool) {
	p := strings.TrimPrefix(raw, "/")
	if p == "" || strings.Contains(p, "..") {
		return "", false
	}
	return p, true
}
