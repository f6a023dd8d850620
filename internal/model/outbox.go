package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

const (
	EventCommunityJoined      = "community.joined"
	EventCommunityLeft        = "community.left"
	EventCommunityLeadChanged = "community.lead_changed"
	EventPostLiked            = "post.liked"
	EventPostUnliked          = "post.unliked"
	EventCommentCreated       = "comment.created"
	EventCommentDeleted       = "comment.deleted"
	EventRSVPChanged          = "event.rsvp"
)

// OutboxEvent 计数变更事件表，与业务写在同一事务内
type OutboxEvent struct {
	ID          uint64         `gorm:"primaryKey"`
	EventType   string         `gorm:"size:32;not null"`
	AggregateID string         `gorm:"size:36;not null;index"`
	ActorID     string         `gorm:"size:36;not null"`
	Payload     datatypes.JSON `gorm:"not null"`
	Status      int8           `gorm:"not null;default:0;index"` // 0=pending,1=sent,2=failed
	Retry       int            `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OutboxEvent) TableName() string { return "outbox_events" }
