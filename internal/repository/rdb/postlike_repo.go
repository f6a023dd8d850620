package rdb

import (
	"context"
	"errors"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type PostLikeRepository struct {
	DB *gorm.DB
}

// Like 锁帖子行 -> 判重 -> 插入点赞 -> likes_count+1；给作者发通知（自己点赞除外）
func (r *PostLikeRepository) Like(ctx context.Context, userID, postID string) (*model.PostLike, error) {
	like := &model.PostLike{UserID: userID, PostID: postID}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := lockByID(tx, &post, postID, pkg.ErrPostNotFound); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.PostLike{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return pkg.ErrAlreadyLiked
		}

		if err := tx.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.ErrAlreadyLiked
			}
			return err
		}
		if err := bump(tx, &model.Post{}, postID, "likes_count", +1); err != nil {
			return err
		}
		if post.UserID != userID {
			if err := notify(tx, post.UserID, model.NotifyPostLiked,
				"New like", "Someone liked your post", postID); err != nil {
				return err
			}
		}
		return appendOutbox(tx, model.EventPostLiked, postID, userID, nil)
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

// Unlike 幂等：没有点赞记录时计数不变
func (r *PostLikeRepository) Unlike(ctx context.Context, userID, postID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := lockByID(tx, &post, postID, pkg.ErrPostNotFound); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		// 未删除任何行 -> 幂等
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		if err := bump(tx, &model.Post{}, postID, "likes_count", -1); err != nil {
			return err
		}
		return appendOutbox(tx, model.EventPostUnliked, postID, userID, nil)
	})
	return changed, err
}

// ListByPost 点赞列表，附带用户信息
func (r *PostLikeRepository) ListByPost(ctx context.Context, postID string) ([]model.PostLike, error) {
	var list []model.PostLike
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
