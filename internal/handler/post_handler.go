package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	svc *service.PostService
	log *zap.Logger
}

type CreatePostReq struct {
	Content     string  `json:"content" binding:"required"`
	CommunityID *string `json:"communityId"`
	MediaURL    *string `json:"mediaUrl" binding:"omitempty,max=1024"`
}

type UpdatePostReq struct {
	Content  *string `json:"content"`
	MediaURL *string `json:"mediaUrl" binding:"omitempty,max=1024"`
}

func NewPostHandler(svc *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

// List 帖子列表，可按 communityId 过滤，附带当前用户的 isLiked
func (h *PostHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("communityId"), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch posts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create 创建帖子接口
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), middleware.CurrentUser(c), service.PostInput{
		Content:     req.Content,
		CommunityID: req.CommunityID,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		respondError(c, h.log, "Failed to create post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	var req UpdatePostReq
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.svc.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), service.PostUpdate{
		Content:  req.Content,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		respondError(c, h.log, "Failed to update post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete 删除帖子接口
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePost(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}
