package handler

import (
	"errors"
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaHandler struct {
	svc *service.MediaService
	log *zap.Logger
}

func NewMediaHandler(svc *service.MediaService, log *zap.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, log: log}
}

// multipart 头部等额外开销
const multipartOverhead = 64 << 10

// Upload multipart 字段 file，返回可写入帖子 mediaUrl 的地址。
// 请求体在解析前就按大小上限截断
func (h *MediaHandler) Upload(c *gin.Context) {
	if maxBytes := h.svc.MaxBytes(); maxBytes > 0 {
		limit := maxBytes + multipartOverhead
		if c.Request.ContentLength > limit {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File is too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File is too large"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, "Failed to upload media", err)
		return
	}
	defer f.Close()

	url, err := h.svc.Upload(c.Request.Context(), middleware.CurrentUser(c).ID,
		fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if errors.Is(err, service.ErrStorageDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Media storage is not configured"})
		return
	}
	if err != nil {
		respondError(c, h.log, "Failed to upload media", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
