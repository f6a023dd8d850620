package rdb

import (
	"context"
	"fmt"

	"NexusFlow/internal/model"

	"gorm.io/gorm"
)

// ReconcileRepository 计数对账，从关系表重新统计冗余计数
type ReconcileRepository struct {
	DB *gorm.DB
}

// CounterReport 计数名 -> 修正的行数
type CounterReport map[string]int64

type counterQuery struct {
	name   string
	table  string
	column string
	real   string
}

var counterQueries = []counterQuery{
	{"community.member_count", "communities", "member_count",
		"SELECT COUNT(*) FROM community_members WHERE community_members.community_id = communities.id"},
	{"post.likes_count", "posts", "likes_count",
		"SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id"},
	{"post.comments_count", "posts", "comments_count",
		"SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id"},
	{"event.attendees_count", "events", "attendees_count",
		fmt.Sprintf("SELECT COUNT(*) FROM event_rsvp WHERE event_rsvp.event_id = events.id AND event_rsvp.status = '%s'", model.RSVPGoing)},
	{"event.interested_count", "events", "interested_count",
		fmt.Sprintf("SELECT COUNT(*) FROM event_rsvp WHERE event_rsvp.event_id = events.id AND event_rsvp.status = '%s'", model.RSVPInterested)},
}

// Reconcile 只更新与真实值不一致的行
func (r *ReconcileRepository) Reconcile(ctx context.Context) (CounterReport, error) {
	report := CounterReport{}
	for _, q := range counterQueries {
		stmt := fmt.Sprintf("UPDATE %s SET %s = (%s) WHERE %s <> (%s)", q.table, q.column, q.real, q.column, q.real)
		res := r.DB.WithContext(ctx).Exec(stmt)
		if res.Error != nil {
			return report, fmt.Errorf("reconcile %s: %w", q.name, res.Error)
		}
		report[q.name] = res.RowsAffected
	}
	return report, nil
}

// Total 本次共修正的行数
func (c CounterReport) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}
