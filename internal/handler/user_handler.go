package handler

import (
	"net/http"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/model"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc    *service.UserService
	posts  *service.PostService
	events *service.EventService
	log    *zap.Logger
}

type LoginReq struct {
	IDToken string `json:"idToken" binding:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateProfileReq struct {
	FirstName       *string `json:"firstName" binding:"omitempty,max=255"`
	LastName        *string `json:"lastName" binding:"omitempty,max=255"`
	Bio             *string `json:"bio" binding:"omitempty,max=2000"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,max=1024"`
}

type UpdateRoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

func NewUserHandler(svc *service.UserService, posts *service.PostService, events *service.EventService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, posts: posts, events: events, log: log}
}

// Login 用身份提供方的 id token 换会话 token
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, h.log, "Failed to log in", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req RefreshReq
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.log, "Failed to refresh token", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		respondError(c, h.log, "Failed to log out", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 当前登录用户
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileReq
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, service.ProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		respondError(c, h.log, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) MyPosts(c *gin.Context) {
	list, err := h.posts.ListByUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch posts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) MyEvents(c *gin.Context) {
	list, err := h.events.ListByCreator(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) MyRSVPs(c *gin.Context) {
	list, err := h.events.ListRSVPsByUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.log, "Failed to fetch RSVPs", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// List 全部用户，admin/staff
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.log, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateRole 修改用户角色，admin
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleReq
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.UpdateRole(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.log, "Failed to update user role", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
