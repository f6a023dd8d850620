package service_test

import (
	"testing"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/service"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetupScenario(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	lead := testutil.CreateUser(t, s.db, model.RoleUser)
	a := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, lead, "Hikers", true)

	e, err := s.events.CreateEvent(ctx, lead, service.EventInput{
		CommunityID: c.ID,
		Title:       "Meetup",
		Schedule:    time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	_, err = s.events.RSVP(ctx, a.ID, e.ID, model.RSVPInterested)
	require.NoError(t, err)
	_, err = s.events.RSVP(ctx, a.ID, e.ID, model.RSVPGoing)
	require.NoError(t, err)

	got, err := s.events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AttendeesCount)
	assert.Equal(t, int64(0), got.InterestedCount)

	_, err = s.events.RSVP(ctx, a.ID, e.ID, model.RSVPStatus("maybe"))
	assert.ErrorIs(t, err, pkg.ErrInvalidRSVP)

	rsvps, err := s.events.RSVPs(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, rsvps, 1)
	mine, err := s.events.ListRSVPsByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	upcoming, err := s.events.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, e.ID, upcoming[0].ID)
}

func TestCreateEventValidation(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	lead := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, lead, "Hikers", true)
	at := time.Now().Add(time.Hour)

	_, err := s.events.CreateEvent(ctx, lead, service.EventInput{CommunityID: c.ID, Schedule: at})
	assert.Equal(t, pkg.KindInvalid, pkg.KindOf(err))

	_, err = s.events.CreateEvent(ctx, lead, service.EventInput{CommunityID: c.ID, Title: "x"})
	assert.Equal(t, pkg.KindInvalid, pkg.KindOf(err))

	_, err = s.events.CreateEvent(ctx, lead, service.EventInput{CommunityID: c.ID, Title: "x", Schedule: at, Recurrence: "FREQ=SOMETIMES"})
	assert.ErrorIs(t, err, pkg.ErrInvalidRecurrence)

	_, err = s.events.CreateEvent(ctx, lead, service.EventInput{CommunityID: "missing", Title: "x", Schedule: at})
	assert.ErrorIs(t, err, pkg.ErrCommunityNotFound)
}

func TestWeeklyOccurrences(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	lead := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, lead, "Hikers", true)
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	e, err := s.events.CreateEvent(ctx, lead, service.EventInput{
		CommunityID: c.ID,
		Title:       "Weekly run",
		Schedule:    start,
		Recurrence:  "RRULE:FREQ=WEEKLY;COUNT=3",
	})
	require.NoError(t, err)

	times, err := s.events.Occurrences(ctx, e.ID, 10)
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.True(t, times[0].Equal(start))
	assert.True(t, times[1].Equal(start.AddDate(0, 0, 7)))
	assert.True(t, times[2].Equal(start.AddDate(0, 0, 14)))

	times, err = s.events.Occurrences(ctx, e.ID, 2)
	require.NoError(t, err)
	assert.Len(t, times, 2)

	single, err := s.events.CreateEvent(ctx, lead, service.EventInput{CommunityID: c.ID, Title: "Once", Schedule: start})
	require.NoError(t, err)
	times, err = s.events.Occurrences(ctx, single.ID, 0)
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.True(t, times[0].Equal(start))
}

func TestEventOwnership(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	creator := testutil.CreateUser(t, s.db, model.RoleUser)
	other := testutil.CreateUser(t, s.db, model.RoleCommunityLead)
	admin := testutil.CreateUser(t, s.db, model.RoleAdmin)
	c := testutil.CreateCommunity(t, s.db, creator, "Hikers", true)
	e, err := s.events.CreateEvent(ctx, creator, service.EventInput{CommunityID: c.ID, Title: "Meetup", Schedule: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = s.events.UpdateEvent(ctx, other, e.ID, service.EventUpdate{Title: &title})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.ErrorIs(t, s.events.DeleteEvent(ctx, other, e.ID), pkg.ErrForbidden)

	bad := "FREQ=NEVER"
	_, err = s.events.UpdateEvent(ctx, creator, e.ID, service.EventUpdate{Recurrence: &bad})
	assert.ErrorIs(t, err, pkg.ErrInvalidRecurrence)

	title = "Sunset meetup"
	virtual := true
	updated, err := s.events.UpdateEvent(ctx, creator, e.ID, service.EventUpdate{Title: &title, IsVirtual: &virtual})
	require.NoError(t, err)
	assert.Equal(t, "Sunset meetup", updated.Title)
	assert.True(t, updated.IsVirtual)

	require.NoError(t, s.events.DeleteEvent(ctx, admin, e.ID))
	_, err = s.events.Get(ctx, e.ID)
	assert.ErrorIs(t, err, pkg.ErrEventNotFound)
}
