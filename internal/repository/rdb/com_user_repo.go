package rdb

import (
	"context"
	"errors"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// Join 加入社区：锁社区行 -> 判重 -> 插入成员 -> member_count+1，同一事务
func (r *CommunityMemberRepository) Join(ctx context.Context, communityID, userID string, role model.CommunityRole) (*model.CommunityMember, error) {
	var member *model.CommunityMember
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := joinTx(tx, communityID, userID, role)
		member = m
		return err
	})
	return member, err
}

func joinTx(tx *gorm.DB, communityID, userID string, role model.CommunityRole) (*model.CommunityMember, error) {
	var c model.Community
	if err := lockByID(tx, &c, communityID, pkg.ErrCommunityNotFound); err != nil {
		return nil, err
	}

	var n int64
	if err := tx.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, pkg.ErrAlreadyMember
	}

	m := &model.CommunityMember{CommunityID: communityID, UserID: userID, Role: role}
	if err := tx.Create(m).Error; err != nil {
		// 唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.ErrAlreadyMember
		}
		return nil, err
	}
	if err := bump(tx, &model.Community{}, communityID, "member_count", +1); err != nil {
		return nil, err
	}
	if err := appendOutbox(tx, model.EventCommunityJoined, communityID, userID, map[string]any{"role": role}); err != nil {
		return nil, err
	}
	return m, nil
}

// Leave 退出社区，没有成员关系时什么也不做；只有真正删除了一行才 member_count-1
func (r *CommunityMemberRepository) Leave(ctx context.Context, communityID, userID string) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Community
		if err := lockByID(tx, &c, communityID, pkg.ErrCommunityNotFound); err != nil {
			return err
		}

		var m model.CommunityMember
		err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.LeadID != nil && *c.LeadID == userID {
			return pkg.ErrLeadCannotLeave
		}

		res := tx.Where("id = ?", m.ID).Delete(&model.CommunityMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		if err := bump(tx, &model.Community{}, communityID, "member_count", -1); err != nil {
			return err
		}
		return appendOutbox(tx, model.EventCommunityLeft, communityID, userID, nil)
	})
	return changed, err
}

// ListMembers 附带用户信息，按加入时间排序
func (r *CommunityMemberRepository) ListMembers(ctx context.Context, communityID string) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Find(&list).Error
	return list, err
}

// UpdateRole 修改社区内角色，不影响 member_count。
// 现任 lead 的角色不能直接改；任命新 lead 时在同一事务内移动 lead_id，原 lead 降为 volunteer
func (r *CommunityMemberRepository) UpdateRole(ctx context.Context, communityID, userID string, role model.CommunityRole) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Community
		if err := lockByID(tx, &c, communityID, pkg.ErrCommunityNotFound); err != nil {
			return err
		}
		err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrMembershipNotFound
		}
		if err != nil {
			return err
		}

		isLead := c.LeadID != nil && *c.LeadID == userID
		switch {
		case isLead && role == model.MemberLead:
			return nil
		case isLead:
			return pkg.ErrLeadRoleLocked
		case role == model.MemberLead:
			if c.LeadID != nil {
				if err := tx.Model(&model.CommunityMember{}).
					Where("community_id = ? AND user_id = ?", communityID, *c.LeadID).
					Update("role", model.MemberVolunteer).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&model.Community{}).Where("id = ?", communityID).Update("lead_id", userID).Error; err != nil {
				return err
			}
			if err := appendOutbox(tx, model.EventCommunityLeadChanged, communityID, userID, map[string]any{"previous": c.LeadID}); err != nil {
				return err
			}
		}

		if err := tx.Model(&model.CommunityMember{}).Where("id = ?", m.ID).Update("role", role).Error; err != nil {
			return err
		}
		m.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
