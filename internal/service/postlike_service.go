package service

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type PostLikeService struct {
	repo     *rdb.PostLikeRepository
	postRepo *rdb.PostRepository
}

func NewPostLikeService(db *gorm.DB) *PostLikeService {
	return &PostLikeService{
		repo:     &rdb.PostLikeRepository{DB: db},
		postRepo: &rdb.PostRepository{DB: db},
	}
}

// Like 重复点赞返回冲突，计数不变
func (s *PostLikeService) Like(ctx context.Context, userID, postID string) (*model.PostLike, error) {
	like, err := s.repo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	pkg.CounterMutations.WithLabelValues("post.like").Inc()
	return like, nil
}

// Unlike 没有点过赞时幂等成功
func (s *PostLikeService) Unlike(ctx context.Context, userID, postID string) error {
	changed, err := s.repo.Unlike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if changed {
		pkg.CounterMutations.WithLabelValues("post.unlike").Inc()
	}
	return nil
}

func (s *PostLikeService) Likes(ctx context.Context, postID string) ([]model.PostLike, error) {
	if _, err := s.postRepo.FindByID(ctx, postID, ""); err != nil {
		return nil, err
	}
	return s.repo.ListByPost(ctx, postID)
}
