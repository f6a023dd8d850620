package model

import (
	"time"

	"gorm.io/datatypes"
)

// Session 未启用 redis 时的会话表
type Session struct {
	SID    string         `gorm:"column:sid;primaryKey;size:128"`
	Sess   datatypes.JSON `gorm:"not null"`
	Expire time.Time      `gorm:"not null;index:IDX_session_expire"`
}

func (Session) TableName() string { return "sessions" }
