package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository 会话落库实现，一个用户同一时间只保留一个 access token
type SessionRepository struct {
	DB *gorm.DB
}

type sessionBody struct {
	Token string `json:"token"`
}

func (r *SessionRepository) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	raw, err := json.Marshal(sessionBody{Token: token})
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"sess", "expire"}),
	}).Create(&model.Session{
		SID:    userID,
		Sess:   datatypes.JSON(raw),
		Expire: time.Now().UTC().Add(ttl),
	}).Error
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	var s model.Session
	err := r.DB.WithContext(ctx).
		Where("sid = ? AND expire > ?", userID, time.Now().UTC()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkg.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	var body sessionBody
	if err := json.Unmarshal(s.Sess, &body); err != nil {
		return "", err
	}
	return body.Token, nil
}

func (r *SessionRepository) Extend(ctx context.Context, userID string, ttl time.Duration) error {
	return r.DB.WithContext(ctx).Model(&model.Session{}).
		Where("sid = ?", userID).
		Update("expire", time.Now().UTC().Add(ttl)).Error
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Where("sid = ?", userID).Delete(&model.Session{}).Error
}

// Purge 清理过期会话
func (r *SessionRepository) Purge(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expire <= ?", time.Now().UTC()).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
