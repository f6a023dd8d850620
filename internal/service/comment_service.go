package service

import (
	"context"
	"strings"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type CommentService struct {
	repo     *rdb.CommentRepository
	postRepo *rdb.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:     &rdb.CommentRepository{DB: db},
		postRepo: &rdb.PostRepository{DB: db},
	}
}

func (s *CommentService) AddComment(ctx context.Context, caller *model.User, postID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkg.Invalid("Comment content is required")
	}
	c := &model.Comment{PostID: postID, UserID: caller.ID, Content: content}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	pkg.CounterMutations.WithLabelValues("comment.create").Inc()
	c.Author = caller
	return c, nil
}

// ListComments 按时间正序
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID, ""); err != nil {
		return nil, err
	}
	return s.repo.ListByPost(ctx, postID)
}

// DeleteComment 评论作者或 admin/staff
func (s *CommentService) DeleteComment(ctx context.Context, caller *model.User, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !model.CanManage(caller, c.UserID) {
		return pkg.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	pkg.CounterMutations.WithLabelValues("comment.delete").Inc()
	return nil
}
