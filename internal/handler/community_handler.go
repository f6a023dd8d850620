package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/model"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommunityHandler struct {
	svc *service.CommunityService
	log *zap.Logger
}

type CreateCommunityReq struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type UpdateCommunityReq struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsApproved  *bool   `json:"isApproved"`
}

type UpdateMemberRoleReq struct {
	Role model.CommunityRole `json:"role" binding:"required,oneof=lead volunteer member"`
}

func NewCommunityHandler(svc *service.CommunityService, log *zap.Logger) *CommunityHandler {
	return &CommunityHandler{svc: svc, log: log}
}

// List 已审核的社区，公开
func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.svc.ListCommunities(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to fetch communities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch community", err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// Create 创建社区接口，创建者成为 lead
func (h *CommunityHandler) Create(c *gin.Context) {
	var req CreateCommunityReq
	if !bindJSON(c, &req) {
		return
	}
	community, err := h.svc.CreateCommunity(c.Request.Context(), middleware.CurrentUser(c), req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, "Failed to create community", err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

func (h *CommunityHandler) Update(c *gin.Context) {
	var req UpdateCommunityReq
	if !bindJSON(c, &req) {
		return
	}
	community, err := h.svc.UpdateCommunity(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), service.CommunityUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsApproved:  req.IsApproved,
	})
	if err != nil {
		respondError(c, h.log, "Failed to update community", err)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteCommunity(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to delete community", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) Members(c *gin.Context) {
	list, err := h.svc.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch members", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) UpdateMemberRole(c *gin.Context) {
	var req UpdateMemberRoleReq
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.UpdateMemberRole(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("userId"), req.Role)
	if err != nil {
		respondError(c, h.log, "Failed to update member role", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Join 加入社区接口
func (h *CommunityHandler) Join(c *gin.Context) {
	m, err := h.svc.JoinCommunity(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to join community", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Leave 退出社区接口
func (h *CommunityHandler) Leave(c *gin.Context) {
	if err := h.svc.LeaveCommunity(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to leave community", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Mine 当前用户加入的社区，带社区内角色
func (h *CommunityHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListForUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch user communities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Pending(c *gin.Context) {
	list, err := h.svc.ListPending(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, "Failed to fetch pending communities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
