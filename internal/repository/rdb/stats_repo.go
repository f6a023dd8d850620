package rdb

import (
	"context"

	"NexusFlow/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

// PlatformStats 实时 COUNT，不做缓存
func (r *StatsRepository) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	db := r.DB.WithContext(ctx)
	var s model.PlatformStats
	if err := db.Model(&model.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Community{}).Where("is_approved = ?", true).Count(&s.ActiveCommunities).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Post{}).Count(&s.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Event{}).Count(&s.TotalEvents).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
