package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextUserKey = "current_user"

// Authenticator 校验 access token 并返回当前用户
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": pkg.ErrUnauthorized.Message})
}

func AuthMiddleware(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			unauthorized(c)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if errors.Is(err, pkg.ErrUnauthorized) {
			unauthorized(c)
			return
		}
		if err != nil {
			log.Error("authenticate failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to authenticate"})
			return
		}

		// 注入当前用户，角色以数据库为准
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 只能在 AuthMiddleware 之后调用
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// RequireRole 路由级角色校验
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c)
			return
		}
		if !user.Role.HasAny(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": pkg.ErrForbidden.Message})
			return
		}
		c.Next()
	}
}
