package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/optbazar/storefront-api/internal/media"
)

// multipart framing allowance on top of the file itself
const multipartOverhead = 64 << 10

// RegisterUploadRoutes mounts POST /upload-image behind admin.
func RegisterUploadRoutes(rg *gin.RouterGroup, svc *media.Service, admin gin.HandlerFunc) {
	rg.POST("/upload-image", admin, uploadImage(svc))
}

func uploadImage(svc *media.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadSize+multipartOverhead)

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		if fh.Size > media.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, err, "")
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadSize+1))
		if err != nil {
			respondError(c, err, "")
			return
		}
		if len(data) > media.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}

		url, err := svc.Save(c.Request.Context(), fh.Filename, data)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": url})
	}
}
