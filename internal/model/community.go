package model

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	LeadID      *string   `gorm:"size:36;index" json:"leadId"`
	IsApproved  bool      `gorm:"not null;default:false;index" json:"isApproved"`
	MemberCount int64     `gorm:"not null;default:0" json:"memberCount"` // 等于 community_members 行数
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Lead *User `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
}

func (c *Community) BeforeCreate(*gorm.DB) error {
	newID(&c.ID)
	return nil
}

// CommunityRole 社区内角色
type CommunityRole string

const (
	MemberLead      CommunityRole = "lead"
	MemberVolunteer CommunityRole = "volunteer"
	MemberRegular   CommunityRole = "member"
)

func (r CommunityRole) Valid() bool {
	return r == MemberLead || r == MemberVolunteer || r == MemberRegular
}

type CommunityMember struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	CommunityID string        `gorm:"size:36;not null;uniqueIndex:uk_community_user" json:"communityId"`
	UserID      string        `gorm:"size:36;not null;index;uniqueIndex:uk_community_user" json:"userId"`
	Role        CommunityRole `gorm:"size:16;not null" json:"role"`
	JoinedAt    time.Time     `gorm:"autoCreateTime" json:"joinedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *CommunityMember) BeforeCreate(*gorm.DB) error {
	newID(&m.ID)
	if m.Role == "" {
		m.Role = MemberRegular
	}
	return nil
}

// UserCommunity 用户加入的社区及其社区内角色
type UserCommunity struct {
	Community
	Role CommunityRole `json:"role"`
}
