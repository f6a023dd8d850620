package model

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;index:idx_post_author_time,priority:1" json:"userId"`
	CommunityID   *string   `gorm:"size:36;index:idx_post_community_time,priority:1" json:"communityId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MediaURL      *string   `gorm:"size:1024" json:"mediaUrl"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`    // 等于 post_likes 行数
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"` // 等于 comments 行数
	SharesCount   int64     `gorm:"not null;default:0" json:"sharesCount"`
	CreatedAt     time.Time `gorm:"index:idx_post_author_time,priority:2;index:idx_post_community_time,priority:2" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Author    *User      `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Community *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`

	// 列表查询时由 EXISTS 子查询填充，不落表
	IsLiked bool `gorm:"->;-:migration" json:"isLiked"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	return nil
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	newID(&c.ID)
	return nil
}
