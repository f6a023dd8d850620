// Package testutil 测试公用的数据库与数据构造
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"NexusFlow/internal/config"
	"NexusFlow/internal/model"
	"NexusFlow/internal/repository/rdb"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB 每个测试一个独立的内存 sqlite 库，已建表
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := rdb.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, rdb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	n := seq.Add(1)
	email := fmt.Sprintf("user%d@example.com", n)
	u := &model.User{
		Email:     &email,
		FirstName: fmt.Sprintf("User%d", n),
		LastName:  "Test",
		Role:      role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateCommunity 走仓储创建，创建者成为 lead；approved 为 true 时直接审核通过
func CreateCommunity(t *testing.T, db *gorm.DB, lead *model.User, name string, approved bool) *model.Community {
	t.Helper()
	c := &model.Community{Name: name, Description: name + " community", LeadID: &lead.ID}
	repo := &rdb.CommunityRepository{DB: db}
	require.NoError(t, repo.Create(t.Context(), c))
	if approved {
		require.NoError(t, db.Model(&model.Community{}).Where("id = ?", c.ID).Update("is_approved", true).Error)
		c.IsApproved = true
	}
	return c
}

func CreatePost(t *testing.T, db *gorm.DB, author *model.User, community *model.Community, content string) *model.Post {
	t.Helper()
	p := &model.Post{UserID: author.ID, Content: content}
	if community != nil {
		p.CommunityID = &community.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Reload 重新读取一行，用于断言计数
func Reload[T any](t *testing.T, db *gorm.DB, id string) *T {
	t.Helper()
	var v T
	require.NoError(t, db.Where("id = ?", id).First(&v).Error)
	return &v
}
