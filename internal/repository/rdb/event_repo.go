package rdb

import (
	"context"
	"errors"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

type RSVPRepository struct {
	DB *gorm.DB
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	q := r.DB.WithContext(ctx).Preload("Community").Preload("Creator")
	if err := findByID(q, &e, id, pkg.ErrEventNotFound); err != nil {
		return nil, err
	}
	return &e, nil
}

// List 可按社区过滤，按时间正序
func (r *EventRepository) List(ctx context.Context, communityID string) ([]model.Event, error) {
	var list []model.Event
	q := r.DB.WithContext(ctx).Preload("Community").Preload("Creator")
	if communityID != "" {
		q = q.Where("community_id = ?", communityID)
	}
	err := q.Order("schedule ASC").Find(&list).Error
	return list, err
}

// Upcoming schedule 晚于 now 的活动
func (r *EventRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.WithContext(ctx).
		Preload("Community").
		Where("schedule > ?", now.UTC()).
		Order("schedule ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *EventRepository) ListByCreator(ctx context.Context, userID string) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.WithContext(ctx).
		Preload("Community").
		Where("created_by = ?", userID).
		Order("schedule ASC").
		Find(&list).Error
	return list, err
}

func (r *EventRepository) Update(ctx context.Context, id string, fields map[string]any) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &e, id, pkg.ErrEventNotFound); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&model.Event{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.Event
		if err := lockByID(tx, &e, id, pkg.ErrEventNotFound); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventRSVP{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Event{}).Error
	})
}

type rsvpCounts struct {
	Going      int64
	Interested int64
}

// Upsert 锁活动行 -> 更新或插入报名 -> 聚合重算两个计数并覆盖
func (r *RSVPRepository) Upsert(ctx context.Context, eventID, userID string, status model.RSVPStatus) (*model.EventRSVP, error) {
	var rsvp model.EventRSVP
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.Event
		if err := lockByID(tx, &e, eventID, pkg.ErrEventNotFound); err != nil {
			return err
		}

		var previous model.RSVPStatus
		err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rsvp = model.EventRSVP{EventID: eventID, UserID: userID, Status: status}
			if err := tx.Create(&rsvp).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			previous = rsvp.Status
			if previous != status {
				if err := tx.Model(&rsvp).Update("status", status).Error; err != nil {
					return err
				}
				rsvp.Status = status
			}
		}

		var counts rsvpCounts
		if err := tx.Model(&model.EventRSVP{}).
			Select("COUNT(CASE WHEN status = ? THEN 1 END) AS going, COUNT(CASE WHEN status = ? THEN 1 END) AS interested",
				model.RSVPGoing, model.RSVPInterested).
			Where("event_id = ?", eventID).
			Scan(&counts).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Event{}).Where("id = ?", eventID).UpdateColumns(map[string]any{
			"attendees_count":  counts.Going,
			"interested_count": counts.Interested,
		}).Error; err != nil {
			return err
		}

		if status == model.RSVPGoing && previous != model.RSVPGoing && e.CreatedBy != userID {
			if err := notify(tx, e.CreatedBy, model.NotifyEventRSVP,
				"New attendee", "Someone is going to "+e.Title, eventID); err != nil {
				return err
			}
		}
		return appendOutbox(tx, model.EventRSVPChanged, eventID, userID, map[string]any{
			"status":     status,
			"previous":   previous,
			"attendees":  counts.Going,
			"interested": counts.Interested,
		})
	})
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *RSVPRepository) ListByEvent(ctx context.Context, eventID string) ([]model.EventRSVP, error) {
	var list []model.EventRSVP
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *RSVPRepository) ListByUser(ctx context.Context, userID string) ([]model.EventRSVP, error) {
	var list []model.EventRSVP
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
