package service

import (
	"context"
	"strings"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type PostService struct {
	repo          *rdb.PostRepository
	communityRepo *rdb.CommunityRepository
}

type PostInput struct {
	Content     string
	CommunityID *string
	MediaURL    *string
}

// PostUpdate nil 字段不修改
type PostUpdate struct {
	Content  *string
	MediaURL *string
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:          &rdb.PostRepository{DB: db},
		communityRepo: &rdb.CommunityRepository{DB: db},
	}
}

func (s *PostService) CreatePost(ctx context.Context, caller *model.User, in PostInput) (*model.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, pkg.Invalid("Post content is required")
	}
	if in.CommunityID != nil && *in.CommunityID == "" {
		in.CommunityID = nil
	}
	if in.CommunityID != nil {
		if _, err := s.communityRepo.FindByID(ctx, *in.CommunityID); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		UserID:      caller.ID,
		CommunityID: in.CommunityID,
		Content:     in.Content,
		MediaURL:    in.MediaURL,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, post.ID, caller.ID)
}

func (s *PostService) Get(ctx context.Context, id, viewerID string) (*model.Post, error) {
	return s.repo.FindByID(ctx, id, viewerID)
}

// List communityID 为空时返回全部帖子，最新的在前
func (s *PostService) List(ctx context.Context, communityID, viewerID string) ([]model.Post, error) {
	return s.repo.List(ctx, communityID, viewerID)
}

func (s *PostService) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdatePost 作者或 admin/staff
func (s *PostService) UpdatePost(ctx context.Context, caller *model.User, id string, in PostUpdate) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}
	if !model.CanManage(caller, post.UserID) {
		return nil, pkg.ErrForbidden
	}

	fields := map[string]any{}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, pkg.Invalid("Post content is required")
		}
		fields["content"] = *in.Content
	}
	if in.MediaURL != nil {
		fields["media_url"] = *in.MediaURL
	}
	if _, err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, caller.ID)
}

// DeletePost 作者或 admin/staff，点赞与评论一并删除
func (s *PostService) DeletePost(ctx context.Context, caller *model.User, id string) error {
	post, err := s.repo.FindByID(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if !model.CanManage(caller, post.UserID) {
		return pkg.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
