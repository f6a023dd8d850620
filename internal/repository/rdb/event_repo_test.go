package rdb_test

import (
	"testing"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createEvent(t *testing.T, db *gorm.DB, c *model.Community, creator *model.User, title string, at time.Time) *model.Event {
	t.Helper()
	e := &model.Event{CommunityID: c.ID, Title: title, Schedule: at, CreatedBy: creator.ID}
	require.NoError(t, (&rdb.EventRepository{DB: db}).Create(t.Context(), e))
	return e
}

func TestRSVPTransitionsKeepCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	c := testutil.CreateCommunity(t, db, a, "Hikers", true)
	e := createEvent(t, db, c, a, "Meetup", time.Now().Add(48*time.Hour))
	rsvps := &rdb.RSVPRepository{DB: db}

	r, err := rsvps.Upsert(ctx, e.ID, b.ID, model.RSVPInterested)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPInterested, r.Status)
	got := testutil.Reload[model.Event](t, db, e.ID)
	assert.Equal(t, int64(0), got.AttendeesCount)
	assert.Equal(t, int64(1), got.InterestedCount)

	_, err = rsvps.Upsert(ctx, e.ID, b.ID, model.RSVPGoing)
	require.NoError(t, err)
	got = testutil.Reload[model.Event](t, db, e.ID)
	assert.Equal(t, int64(1), got.AttendeesCount)
	assert.Equal(t, int64(0), got.InterestedCount)

	// 重复提交同一状态不改变计数，也不重复通知
	_, err = rsvps.Upsert(ctx, e.ID, b.ID, model.RSVPGoing)
	require.NoError(t, err)
	got = testutil.Reload[model.Event](t, db, e.ID)
	assert.Equal(t, int64(1), got.AttendeesCount)
	assert.Equal(t, int64(1), countWhere(t, db, &model.EventRSVP{}, "event_id = ?", e.ID))
	assert.Equal(t, int64(1), countWhere(t, db, &model.Notification{}, "user_id = ? AND type = ?", a.ID, model.NotifyEventRSVP))

	_, err = rsvps.Upsert(ctx, e.ID, b.ID, model.RSVPNotGoing)
	require.NoError(t, err)
	got = testutil.Reload[model.Event](t, db, e.ID)
	assert.Equal(t, int64(0), got.AttendeesCount)
	assert.Equal(t, int64(0), got.InterestedCount)

	list, err := rsvps.ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	assert.Equal(t, b.ID, list[0].User.ID)

	mine, err := rsvps.ListByUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Meetup", mine[0].Event.Title)
}

func TestCreatorGoingIsNotNotified(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, model.RoleUser)
	c := testutil.CreateCommunity(t, db, a, "Hikers", true)
	e := createEvent(t, db, c, a, "Meetup", time.Now().Add(time.Hour))

	_, err := (&rdb.RSVPRepository{DB: db}).Upsert(t.Context(), e.ID, a.ID, model.RSVPGoing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.Reload[model.Event](t, db, e.ID).AttendeesCount)
	assert.Zero(t, countWhere(t, db, &model.Notification{}, "user_id = ?", a.ID))
}

func TestRSVPMissingEvent(t *testing.T) {
	db := testutil.NewDB(t)
	b := testutil.CreateUser(t, db, model.RoleUser)

	_, err := (&rdb.RSVPRepository{DB: db}).Upsert(t.Context(), "missing", b.ID, model.RSVPGoing)
	assert.ErrorIs(t, err, pkg.ErrEventNotFound)
}

func TestUpcomingEvents(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	c := testutil.CreateCommunity(t, db, a, "Hikers", true)
	now := time.Now().UTC()
	createEvent(t, db, c, a, "Past", now.Add(-24*time.Hour))
	later := createEvent(t, db, c, a, "Later", now.Add(72*time.Hour))
	soon := createEvent(t, db, c, a, "Soon", now.Add(24*time.Hour))

	events := &rdb.EventRepository{DB: db}
	list, err := events.Upcoming(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, soon.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	list, err = events.Upcoming(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, soon.ID, list[0].ID)

	all, err := events.List(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Past", all[0].Title)
	require.NotNil(t, all[0].Community)
	assert.Equal(t, "Hikers", all[0].Community.Name)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	c := testutil.CreateCommunity(t, db, a, "Hikers", true)
	e := createEvent(t, db, c, a, "Meetup", time.Now().Add(time.Hour))
	events := &rdb.EventRepository{DB: db}

	updated, err := events.Update(ctx, e.ID, map[string]any{"title": "Hike", "is_virtual": true})
	require.NoError(t, err)
	assert.Equal(t, "Hike", updated.Title)
	assert.True(t, updated.IsVirtual)

	_, err = (&rdb.RSVPRepository{DB: db}).Upsert(ctx, e.ID, b.ID, model.RSVPGoing)
	require.NoError(t, err)
	require.NoError(t, events.Delete(ctx, e.ID))
	assert.Zero(t, countWhere(t, db, &model.EventRSVP{}, "event_id = ?", e.ID))

	_, err = events.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, pkg.ErrEventNotFound)
	assert.ErrorIs(t, events.Delete(ctx, e.ID), pkg.ErrEventNotFound)
}
