package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	svc *service.CommentService
	log *zap.Logger
}

type CreateCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

func (h *CommentHandler) List(c *gin.Context) {
	list, err := h.svc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch comments", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentReq
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.log, "Failed to create comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}
