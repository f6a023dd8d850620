package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc *service.NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch notifications", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkRead 只能标记自己的通知
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to mark notification as read", err)
		return
	}
	c.Status(http.StatusNoContent)
}
