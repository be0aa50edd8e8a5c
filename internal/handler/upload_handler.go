package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"photodrop/internal/middleware"
	"photodrop/internal/service"
)

type UploadHandler struct {
	uploads *service.UploadService
}

func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload expects a single multipart part named "image". The session is
// already resolved by the auth middleware.
func (h *UploadHandler) Upload(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	logutil.GetLogger(c.Request.Context()).Info("upload request", zap.String("email", sess.Email))

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if _, err := h.uploads.Upload(c.Request.Context(), sess.Email, fh); err != nil {
		handleUploadError(c, sess.Email, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded and email sent successfully"})
}
