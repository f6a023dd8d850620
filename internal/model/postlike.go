package model

import (
	"time"

	"gorm.io/gorm"
)

type PostLike struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:uk_post_user" json:"postId"`
	UserID    string    `gorm:"size:36;not null;index;uniqueIndex:uk_post_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (l *PostLike) BeforeCreate(*gorm.DB) error {
	newID(&l.ID)
	return nil
}
