// Package handlers is the HTTP boundary: typed request payloads,
// principal extraction, and the uniform mapping from error kinds to
// status codes.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"linkup/apperr"
	"linkup/chat"
	"linkup/config"
	"linkup/middleware"
	"linkup/posts"
	"linkup/social"
	"linkup/store"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
)

type Handler struct {
	Social *social.Manager
	Posts  *posts.Service
	Chat   *chat.Service
	Store  *store.Store
	Minio  *minio.Client
	Cfg    config.Config
	Logger *slog.Logger
}

func respond(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func respondErr(c *gin.Context, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	label := "fail"
	if status >= http.StatusInternalServerError {
		label = "error"
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"status": label, "message": apperr.PublicMessage(err)})
}

func principal(c *gin.Context) uint {
	uid, _ := c.Get(middleware.ContextUserID)
	id, _ := uid.(uint)
	return id
}

func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
