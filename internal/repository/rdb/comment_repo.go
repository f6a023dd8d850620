package rdb

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// Create 插入评论并 comments_count+1；评论他人帖子时通知作者
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := lockByID(tx, &post, c.PostID, pkg.ErrPostNotFound); err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := bump(tx, &model.Post{}, c.PostID, "comments_count", +1); err != nil {
			return err
		}
		if post.UserID != c.UserID {
			if err := notify(tx, post.UserID, model.NotifyPostCommented,
				"New comment", "Someone commented on your post", c.PostID); err != nil {
				return err
			}
		}
		return appendOutbox(tx, model.EventCommentCreated, c.PostID, c.UserID, map[string]any{"comment": c.ID})
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := findByID(r.DB.WithContext(ctx), &c, id, pkg.ErrCommentNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByPost 附带作者，按时间正序
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// Delete 先不加锁读出所属帖子，锁帖子后再确认评论仍在，删除后 comments_count-1。
// 与删帖一样先锁帖子，保持加锁顺序一致
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Comment
		if err := findByID(tx, &c, id, pkg.ErrCommentNotFound); err != nil {
			return err
		}
		var post model.Post
		if err := lockByID(tx, &post, c.PostID, pkg.ErrPostNotFound); err != nil {
			return err
		}
		var current model.Comment
		if err := findByID(tx, &current, id, pkg.ErrCommentNotFound); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := bump(tx, &model.Post{}, c.PostID, "comments_count", -1); err != nil {
			return err
		}
		return appendOutbox(tx, model.EventCommentDeleted, c.PostID, c.UserID, map[string]any{"comment": id})
	})
}
