package ginserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomies/internal/infra/storage"
)

// ImageSource opens listing pictures by path.
type ImageSource interface {
	Open(ctx context.Context, name string) (*storage.Object, error)
}

type ImageHandler struct {
	Images ImageSource
	Logger *slog.Logger
}

func (h ImageHandler) Serve(c *gin.Context) {
	if h.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "images unavailable"})
		return
	}
	obj, err := h.Images.Open(c.Request.Context(), c.Param("path"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("image read failed", "path", c.Param("path"), "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "image unavailable"})
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
