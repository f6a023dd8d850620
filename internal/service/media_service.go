package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"NexusFlow/internal/pkg"

	"github.com/google/uuid"
)

var ErrStorageDisabled = errors.New("media storage is not configured")

var allowedMedia = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// MediaService 帖子图片/视频上传，返回可直接写入 mediaUrl 的地址
type MediaService struct {
	store    pkg.ObjectStore
	maxBytes int64
}

func NewMediaService(store pkg.ObjectStore, maxBytes int64) *MediaService {
	return &MediaService{store: store, maxBytes: maxBytes}
}

// MaxBytes 单个文件的大小上限，0 表示不限
func (s *MediaService) MaxBytes() int64 { return s.maxBytes }

func (s *MediaService) Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedMedia[contentType]
	if !ok {
		return "", pkg.Invalid("Unsupported media type")
	}
	if size <= 0 {
		return "", pkg.Invalid("File is empty")
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return "", pkg.Invalid(fmt.Sprintf("File exceeds %d bytes", s.maxBytes))
	}
	if e := strings.ToLower(path.Ext(filename)); e != "" && e != ext && !(ext == ".jpg" && e == ".jpeg") {
		return "", pkg.Invalid("File extension does not match its content type")
	}

	key := fmt.Sprintf("posts/%s/%s%s", userID, uuid.NewString(), ext)
	return s.store.PutObject(ctx, pkg.UploadInput{
		Key:         key,
		ContentType: contentType,
		Body:        body,
		Size:        size,
	})
}
