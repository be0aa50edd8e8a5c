package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "photodrop/internal/pkg/errors"
)

func handleUploadError(c *gin.Context, email string, err error) {
	logutil.GetLogger(c.Request.Context()).Error("upload failed",
		zap.String("email", email),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case appErr.IsQuotaExceeded(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload limit reached"})
	case appErr.IsMailFailed(err):
		c.String(http.StatusInternalServerError, "Error sending email")
	case errors.Is(err, appErr.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
