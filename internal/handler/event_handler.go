package handler

import (
	"net/http"
	"strconv"
	"time"

	"NexusFlow/internal/middleware"
	"NexusFlow/internal/model"
	"NexusFlow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	svc *service.EventService
	log *zap.Logger
}

type CreateEventReq struct {
	CommunityID string    `json:"communityId" binding:"required"`
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	Schedule    time.Time `json:"schedule" binding:"required"`
	Location    *string   `json:"location" binding:"omitempty,max=512"`
	IsVirtual   bool      `json:"isVirtual"`
	Recurrence  string    `json:"recurrence" binding:"omitempty,max=512"`
}

type UpdateEventReq struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	Schedule    *time.Time `json:"schedule"`
	Location    *string    `json:"location" binding:"omitempty,max=512"`
	IsVirtual   *bool      `json:"isVirtual"`
	Recurrence  *string    `json:"recurrence" binding:"omitempty,max=512"`
}

type RSVPReq struct {
	Status model.RSVPStatus `json:"status" binding:"required,oneof=going interested not_going"`
}

func NewEventHandler(svc *service.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// List 活动列表，公开，可按 communityId 过滤
func (h *EventHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("communityId"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventHandler) Upcoming(c *gin.Context) {
	list, err := h.svc.Upcoming(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to fetch upcoming events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch event", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Occurrences 重复活动接下来的举办时间
func (h *EventHandler) Occurrences(c *gin.Context) {
	count := 0
	if s := c.Query("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid count"})
			return
		}
		count = n
	}
	times, err := h.svc.Occurrences(c.Request.Context(), c.Param("id"), count)
	if err != nil {
		respondError(c, h.log, "Failed to compute occurrences", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": times})
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.svc.CreateEvent(c.Request.Context(), middleware.CurrentUser(c), service.EventInput{
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Description: req.Description,
		Schedule:    req.Schedule,
		Location:    req.Location,
		IsVirtual:   req.IsVirtual,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		respondError(c, h.log, "Failed to create event", err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req UpdateEventReq
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.svc.UpdateEvent(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), service.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Schedule:    req.Schedule,
		Location:    req.Location,
		IsVirtual:   req.IsVirtual,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		respondError(c, h.log, "Failed to update event", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, "Failed to delete event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RSVP 报名，重复提交覆盖状态
func (h *EventHandler) RSVP(c *gin.Context) {
	var req RSVPReq
	if !bindJSON(c, &req) {
		return
	}
	rsvp, err := h.svc.RSVP(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, "Failed to RSVP", err)
		return
	}
	c.JSON(http.StatusCreated, rsvp)
}

func (h *EventHandler) RSVPs(c *gin.Context) {
	list, err := h.svc.RSVPs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "Failed to fetch RSVPs", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
