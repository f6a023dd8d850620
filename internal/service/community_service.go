package service

import (
	"context"
	"strings"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo       *rdb.CommunityRepository
	memberRepo *rdb.CommunityMemberRepository
	notifier   *NotificationService
}

// CommunityUpdate nil 字段不修改
type CommunityUpdate struct {
	Name        *string
	Description *string
	IsApproved  *bool
}

func NewCommunityService(db *gorm.DB, notifier *NotificationService) *CommunityService {
	return &CommunityService{
		repo:       &rdb.CommunityRepository{DB: db},
		memberRepo: &rdb.CommunityMemberRepository{DB: db},
		notifier:   notifier,
	}
}

// CreateCommunity 创建者自动成为 lead，新社区等待审核
func (s *CommunityService) CreateCommunity(ctx context.Context, caller *model.User, name, desc string) (*model.Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkg.Invalid("Community name is required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		LeadID:      &caller.ID,
	}
	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}
	pkg.CounterMutations.WithLabelValues("community.join").Inc()
	return community, nil
}

func (s *CommunityService) Get(ctx context.Context, id string) (*model.Community, error) {
	return s.repo.FindByID(ctx, id)
}

// ListCommunities 公开列表只包含已审核的社区
func (s *CommunityService) ListCommunities(ctx context.Context) ([]model.Community, error) {
	return s.repo.ListApproved(ctx)
}

func (s *CommunityService) ListPending(ctx context.Context, caller *model.User) ([]model.Community, error) {
	if !model.CanModerate(caller) {
		return nil, pkg.ErrForbidden
	}
	return s.repo.ListPending(ctx)
}

func (s *CommunityService) ListForUser(ctx context.Context, userID string) ([]model.UserCommunity, error) {
	return s.repo.ListByMember(ctx, userID)
}

// UpdateCommunity lead 或 admin/staff 可编辑；审核状态只有 admin/staff 能改
func (s *CommunityService) UpdateCommunity(ctx context.Context, caller *model.User, id string, in CommunityUpdate) (*model.Community, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanEditCommunity(caller, current) {
		return nil, pkg.ErrForbidden
	}
	if in.IsApproved != nil && !caller.Role.IsStaff() {
		return nil, pkg.ErrForbidden
	}

	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, pkg.Invalid("Community name is required")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsApproved != nil {
		fields["is_approved"] = *in.IsApproved
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !current.IsApproved && updated.IsApproved && updated.LeadID != nil && s.notifier != nil {
		s.notifier.Notify(ctx, *updated.LeadID, model.NotifyCommunityApproved,
			"Community approved", updated.Name+" is now visible to everyone", updated.ID)
	}
	return updated, nil
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, caller *model.User, id string) error {
	if !model.CanModerate(caller) {
		return pkg.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *CommunityService) Members(ctx context.Context, id string) ([]model.CommunityMember, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.memberRepo.ListMembers(ctx, id)
}

// UpdateMemberRole 改社区内角色；任命 lead 时社区 leadId 随之移动
func (s *CommunityService) UpdateMemberRole(ctx context.Context, caller *model.User, communityID, userID string, role model.CommunityRole) (*model.CommunityMember, error) {
	if !role.Valid() {
		return nil, pkg.Invalid("Invalid member role")
	}
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !model.CanEditCommunity(caller, community) {
		return nil, pkg.ErrForbidden
	}
	return s.memberRepo.UpdateRole(ctx, communityID, userID, role)
}

func (s *CommunityService) JoinCommunity(ctx context.Context, userID, communityID string) (*model.CommunityMember, error) {
	m, err := s.memberRepo.Join(ctx, communityID, userID, model.MemberRegular)
	if err != nil {
		return nil, err
	}
	pkg.CounterMutations.WithLabelValues("community.join").Inc()
	return m, nil
}

// LeaveCommunity 未加入时为幂等成功
func (s *CommunityService) LeaveCommunity(ctx context.Context, userID, communityID string) error {
	changed, err := s.memberRepo.Leave(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if changed {
		pkg.CounterMutations.WithLabelValues("community.leave").Inc()
	}
	return nil
}
