package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotifyPostLiked         = "post_liked"
	NotifyPostCommented     = "post_commented"
	NotifyEventRSVP         = "event_rsvp"
	NotifyCommunityApproved = "community_approved"
	NotifyRoleChanged       = "role_changed"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index:idx_notification_user_time,priority:1" json:"userId"`
	Type      string    `gorm:"size:100;not null" json:"type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	RelatedID *string   `gorm:"size:36" json:"relatedId"`
	CreatedAt time.Time `gorm:"index:idx_notification_user_time,priority:2" json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	newID(&n.ID)
	return nil
}
