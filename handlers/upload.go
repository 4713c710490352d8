package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"linkup/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadImage stores the multipart "image" file in the object bucket
// and returns its public URL for use as a post or message image
// reference.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondErr(c, h.Logger, apperr.Validation("an image file is required"))
		return
	}
	src, err := file.Open()
	if err != nil {
		respondErr(c, h.Logger, apperr.Validation("failed to open uploaded file"))
		return
	}
	defer src.Close()

	objectName := uuid.New().String() + filepath.Ext(file.Filename)
	contentType := file.Header.Get("Content-Type")

	_, err = h.Minio.PutObject(c.Request.Context(), h.Cfg.MinioBucket, objectName, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		respondErr(c, h.Logger, apperr.Internal("upload image", err))
		return
	}

	url := fmt.Sprintf("%s/%s/%s", h.Cfg.MinioPublicURL, h.Cfg.MinioBucket, objectName)
	respond(c, http.StatusOK, gin.H{"url": url})
}
