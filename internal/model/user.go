package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           *string   `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName       string    `gorm:"size:255" json:"firstName"`
	LastName        string    `gorm:"size:255" json:"lastName"`
	ProfileImageURL string    `gorm:"size:1024" json:"profileImageUrl"`
	Role            Role      `gorm:"size:32;not null;index" json:"role"`
	Bio             string    `gorm:"type:text" json:"bio"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	newID(&u.ID)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// PlatformStats 管理后台统计
type PlatformStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveCommunities int64 `json:"activeCommunities"`
	TotalPosts        int64 `json:"totalPosts"`
	TotalEvents       int64 `json:"totalEvents"`
}
