package service

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type StatsService struct {
	repo *rdb.StatsRepository
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{repo: &rdb.StatsRepository{DB: db}}
}

func (s *StatsService) PlatformStats(ctx context.Context, caller *model.User) (*model.PlatformStats, error) {
	if !model.CanModerate(caller) {
		return nil, pkg.ErrForbidden
	}
	return s.repo.PlatformStats(ctx)
}
