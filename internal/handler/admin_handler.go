package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminHandler struct {
	svc *service.StatsService
	db  *gorm.DB
	log *zap.Logger
}

func NewAdminHandler(svc *service.StatsService, db *gorm.DB, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, db: db, log: log}
}

// Stats 平台统计，admin/staff
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.PlatformStats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, "Failed to fetch platform stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health 数据库可用时返回 ok
func (h *AdminHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
