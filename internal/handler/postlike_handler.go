package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostLikeHandler struct {
	svc *service.PostLikeService
	log *zap.Logger
}

func NewPostLikeHandler(svc *service.PostLikeService, log *zap.Logger) *PostLikeHandler {
	return &PostLikeHandler{svc: svc, log: log}
}

// Like 点赞，重复点赞返回 409
func (h *PostLikeHandler) Like(c *gin.Context) {
	like, err := h.svc.Like(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to like post", err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

// Unlike 取消点赞，幂等
func (h *PostLikeHandler) Unlike(c *gin.Context) {
	if err := h.svc.Unlike(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to unlike post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostLikeHandler) Likes(c *gin.Context) {
	list, err := h.svc.Likes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch likes", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
