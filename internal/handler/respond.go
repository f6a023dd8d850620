package handler

import (
	"errors"
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var kindStatus = map[pkg.Kind]int{
	pkg.KindInvalid:      http.StatusBadRequest,
	pkg.KindUnauthorized: http.StatusUnauthorized,
	pkg.KindForbidden:    http.StatusForbidden,
	pkg.KindNotFound:     http.StatusNotFound,
	pkg.KindConflict:     http.StatusConflict,
}

// respondError 业务错误按类型返回，其它错误记日志后返回 fallback
func respondError(c *gin.Context, log *zap.Logger, fallback string, err error) {
	var e *pkg.Error
	if errors.As(err, &e) {
		c.JSON(kindStatus[e.Kind], gin.H{"message": e.Message})
		return
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"message": "Resource already exists"})
		return
	}

	fields := []zap.Field{zap.String("route", c.FullPath()), zap.Error(err)}
	if u := middleware.CurrentUser(c); u != nil {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	log.Error(fallback, fields...)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
}

// bindJSON 绑定失败时直接返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return false
	}
	return true
}
