package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photodrop/internal/middleware"
	"photodrop/internal/session"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Uploads  *UploadHandler
	Sessions *session.Store
}

func RegisterRoutes(root *gin.RouterGroup, deps RouterDeps) {
	root.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	root.POST("/auth/login", deps.Auth.Login)

	api := root.Group("/api")
	api.Use(middleware.SessionAuth(deps.Sessions))
	api.POST("/upload", deps.Uploads.Upload)
}
