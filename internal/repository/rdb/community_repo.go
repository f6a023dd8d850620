package rdb

import (
	"context"
	"errors"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 新建社区（待审核），创建者以 lead 身份加入，两步在同一事务，member_count 最终为 1
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) error {
	if c.LeadID == nil {
		return errors.New("community lead required")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.MemberCount = 0
		c.IsApproved = false
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if _, err := joinTx(tx, c.ID, *c.LeadID, model.MemberLead); err != nil {
			return err
		}
		return tx.Where("id = ?", c.ID).First(c).Error
	})
}

func (r *CommunityRepository) FindByID(ctx context.Context, id string) (*model.Community, error) {
	var c model.Community
	if err := findByID(r.DB.WithContext(ctx), &c, id, pkg.ErrCommunityNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApproved 只返回审核通过的社区，按成员数倒序
func (r *CommunityRepository) ListApproved(ctx context.Context) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("member_count DESC").
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) ListPending(ctx context.Context) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Preload("Lead").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ListByMember 用户加入的社区以及社区内角色
func (r *CommunityRepository) ListByMember(ctx context.Context, userID string) ([]model.UserCommunity, error) {
	var list []model.UserCommunity
	err := r.DB.WithContext(ctx).
		Table("communities").
		Select("communities.*, community_members.role AS role").
		Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.user_id = ?", userID).
		Order("community_members.joined_at DESC").
		Scan(&list).Error
	return list, err
}

func (r *CommunityRepository) Update(ctx context.Context, id string, fields map[string]any) (*model.Community, error) {
	var c model.Community
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &c, id, pkg.ErrCommunityNotFound); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&model.Community{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete 显式级联删除：帖子的点赞/评论 -> 帖子 -> 活动报名 -> 活动 -> 成员 -> 社区
func (r *CommunityRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Community
		if err := lockByID(tx, &c, id, pkg.ErrCommunityNotFound); err != nil {
			return err
		}

		postIDs := tx.Model(&model.Post{}).Select("id").Where("community_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}

		eventIDs := tx.Model(&model.Event{}).Select("id").Where("community_id = ?", id)
		if err := tx.Where("event_id IN (?)", eventIDs).Delete(&model.EventRSVP{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}

		if err := tx.Where("community_id = ?", id).Delete(&model.CommunityMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Community{}).Error
	})
}
