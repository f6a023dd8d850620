package rdb

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

const isLikedColumn = "EXISTS (SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) AS is_liked"

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindByID viewerID 不为空时填充 is_liked
func (r *PostRepository) FindByID(ctx context.Context, id, viewerID string) (*model.Post, error) {
	var post model.Post
	q := r.DB.WithContext(ctx).Preload("Author").Preload("Community")
	if viewerID != "" {
		q = q.Select("posts.*, "+isLikedColumn, viewerID)
	}
	if err := findByID(q, &post, id, pkg.ErrPostNotFound); err != nil {
		return nil, err
	}
	return &post, nil
}

// List 可按社区过滤，附带作者与社区信息，按创建时间倒序
func (r *PostRepository) List(ctx context.Context, communityID, viewerID string) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.WithContext(ctx).
		Select("posts.*, "+isLikedColumn, viewerID).
		Preload("Author").
		Preload("Community")
	if communityID != "" {
		q = q.Where("posts.community_id = ?", communityID)
	}
	err := q.Order("posts.created_at DESC").Find(&list).Error
	return list, err
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Select("posts.*, "+isLikedColumn, userID).
		Preload("Community").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *PostRepository) Update(ctx context.Context, id string, fields map[string]any) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &post, id, pkg.ErrPostNotFound); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete 先删点赞和评论再删帖子
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := lockByID(tx, &post, id, pkg.ErrPostNotFound); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}
