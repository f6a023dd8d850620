package service

import (
	"context"
	"strings"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

const (
	UpcomingLimit      = 10
	DefaultOccurrences = 5
	MaxOccurrences     = 50
)

type EventService struct {
	repo          *rdb.EventRepository
	rsvpRepo      *rdb.RSVPRepository
	communityRepo *rdb.CommunityRepository
	now           func() time.Time
}

type EventInput struct {
	CommunityID string
	Title       string
	Description string
	Schedule    time.Time
	Location    *string
	IsVirtual   bool
	Recurrence  string
}

// EventUpdate nil 字段不修改
type EventUpdate struct {
	Title       *string
	Description *string
	Schedule    *time.Time
	Location    *string
	IsVirtual   *bool
	Recurrence  *string
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		repo:          &rdb.EventRepository{DB: db},
		rsvpRepo:      &rdb.RSVPRepository{DB: db},
		communityRepo: &rdb.CommunityRepository{DB: db},
		now:           time.Now,
	}
}

// parseRecurrence 接受带或不带 "RRULE:" 前缀的规则，以活动开始时间作为 DTSTART
func parseRecurrence(rule string, start time.Time) (*rrule.RRule, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, pkg.ErrInvalidRecurrence
	}
	r.DTStart(start.UTC())
	return r, nil
}

func (s *EventService) CreateEvent(ctx context.Context, caller *model.User, in EventInput) (*model.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, pkg.Invalid("Event title is required")
	}
	if in.Schedule.IsZero() {
		return nil, pkg.Invalid("Event schedule is required")
	}
	if in.Recurrence != "" {
		if _, err := parseRecurrence(in.Recurrence, in.Schedule); err != nil {
			return nil, err
		}
	}
	if _, err := s.communityRepo.FindByID(ctx, in.CommunityID); err != nil {
		return nil, err
	}

	e := &model.Event{
		CommunityID: in.CommunityID,
		Title:       in.Title,
		Description: in.Description,
		Schedule:    in.Schedule,
		Location:    in.Location,
		IsVirtual:   in.IsVirtual,
		Recurrence:  in.Recurrence,
		CreatedBy:   caller.ID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, e.ID)
}

func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, communityID string) ([]model.Event, error) {
	return s.repo.List(ctx, communityID)
}

// Upcoming 未来的活动，最多 UpcomingLimit 个
func (s *EventService) Upcoming(ctx context.Context) ([]model.Event, error) {
	return s.repo.Upcoming(ctx, s.now(), UpcomingLimit)
}

func (s *EventService) ListByCreator(ctx context.Context, userID string) ([]model.Event, error) {
	return s.repo.ListByCreator(ctx, userID)
}

// Occurrences 接下来的 count 次举办时间；非重复活动只有一次
func (s *EventService) Occurrences(ctx context.Context, id string, count int) ([]time.Time, error) {
	if count <= 0 {
		count = DefaultOccurrences
	}
	if count > MaxOccurrences {
		count = MaxOccurrences
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]time.Time, 0, count)
	if e.Recurrence == "" {
		if e.Schedule.After(now) {
			out = append(out, e.Schedule.UTC())
		}
		return out, nil
	}

	r, err := parseRecurrence(e.Recurrence, e.Schedule)
	if err != nil {
		return nil, err
	}
	next := r.After(now, true)
	for !next.IsZero() && len(out) < count {
		out = append(out, next)
		next = r.After(next, false)
	}
	return out, nil
}

// UpdateEvent 创建者或 admin/staff
func (s *EventService) UpdateEvent(ctx context.Context, caller *model.User, id string, in EventUpdate) (*model.Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanManage(caller, e.CreatedBy) {
		return nil, pkg.ErrForbidden
	}

	fields := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, pkg.Invalid("Event title is required")
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	schedule := e.Schedule
	if in.Schedule != nil {
		if in.Schedule.IsZero() {
			return nil, pkg.Invalid("Event schedule is required")
		}
		schedule = *in.Schedule
		fields["schedule"] = in.Schedule.UTC()
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.IsVirtual != nil {
		fields["is_virtual"] = *in.IsVirtual
	}
	if in.Recurrence != nil {
		if *in.Recurrence != "" {
			if _, err := parseRecurrence(*in.Recurrence, schedule); err != nil {
				return nil, err
			}
		}
		fields["recurrence"] = *in.Recurrence
	}

	if _, err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// DeleteEvent 创建者或 admin/staff，报名记录一并删除
func (s *EventService) DeleteEvent(ctx context.Context, caller *model.User, id string) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !model.CanManage(caller, e.CreatedBy) {
		return pkg.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// RSVP 同一用户对同一活动只有一条记录，重复提交覆盖状态
func (s *EventService) RSVP(ctx context.Context, userID, eventID string, status model.RSVPStatus) (*model.EventRSVP, error) {
	if !status.Valid() {
		return nil, pkg.ErrInvalidRSVP
	}
	rsvp, err := s.rsvpRepo.Upsert(ctx, eventID, userID, status)
	if err != nil {
		return nil, err
	}
	pkg.CounterMutations.WithLabelValues("event.rsvp").Inc()
	return rsvp, nil
}

func (s *EventService) RSVPs(ctx context.Context, eventID string) ([]model.EventRSVP, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.rsvpRepo.ListByEvent(ctx, eventID)
}

func (s *EventService) ListRSVPsByUser(ctx context.Context, userID string) ([]model.EventRSVP, error) {
	return s.rsvpRepo.ListByUser(ctx, userID)
}
