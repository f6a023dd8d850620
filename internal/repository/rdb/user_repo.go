package rdb

import (
	"context"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

// Upsert 身份提供方登录时写入/刷新资料，不覆盖 role
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, user.ID)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := findByID(r.DB.WithContext(ctx), &user, id, pkg.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return r.update(ctx, id, map[string]any{"role": role})
}

// UpdateProfile 只允许修改资料字段
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) (*model.User, error) {
	return r.update(ctx, id, fields)
}

func (r *UserRepository) update(ctx context.Context, id string, fields map[string]any) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &user, id, pkg.ErrUserNotFound); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
