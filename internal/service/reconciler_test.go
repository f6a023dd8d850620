package service_test

import (
	"context"
	"testing"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/service"
	"NexusFlow/internal/testutil"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcilerRepairsCorruptedCounters(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, a, "Hikers", true)
	p := testutil.CreatePost(t, s.db, a, c, "hello")
	require.NoError(t, s.db.Model(&model.Community{}).Where("id = ?", c.ID).UpdateColumn("member_count", 42).Error)
	require.NoError(t, s.db.Model(&model.Post{}).Where("id = ?", p.ID).UpdateColumn("likes_count", 9).Error)

	r := service.NewCounterReconciler(s.db, nil, zap.NewNop())
	report, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Total())
	assert.Equal(t, int64(1), testutil.Reload[model.Community](t, s.db, c.ID).MemberCount)
	assert.Equal(t, int64(0), testutil.Reload[model.Post](t, s.db, p.ID).LikesCount)

	report, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Total())
}

func TestReconcilerSchedule(t *testing.T) {
	s := newServices(t)
	r := service.NewCounterReconciler(s.db, nil, zap.NewNop())
	c := cron.New()

	assert.Error(t, r.Schedule(t.Context(), c, "every now and then"))
	require.NoError(t, r.Schedule(t.Context(), c, "@every 1h"))
	assert.Len(t, c.Entries(), 1)
}

type fakeLocker struct {
	free     bool
	ttl      time.Duration
	released bool
}

func (l *fakeLocker) Acquire(_ context.Context, _, _ string, ttl time.Duration) (bool, error) {
	l.ttl = ttl
	return l.free, nil
}

func (l *fakeLocker) Release(context.Context, string, string) error {
	l.released = true
	return nil
}

func TestReconcilerHoldsLockForWholeRun(t *testing.T) {
	s := newServices(t)
	a := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, a, "Hikers", true)
	require.NoError(t, s.db.Model(&model.Community{}).Where("id = ?", c.ID).UpdateColumn("member_count", 7).Error)

	busy := &fakeLocker{}
	ran, err := service.NewCounterReconciler(s.db, busy, zap.NewNop()).RunExclusive(t.Context())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.False(t, busy.released)
	assert.Equal(t, int64(7), testutil.Reload[model.Community](t, s.db, c.ID).MemberCount)

	free := &fakeLocker{free: true}
	ran, err = service.NewCounterReconciler(s.db, free, zap.NewNop()).RunExclusive(t.Context())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, free.released)
	assert.GreaterOrEqual(t, free.ttl, service.ReconcileTimeout)
	assert.Equal(t, int64(1), testutil.Reload[model.Community](t, s.db, c.ID).MemberCount)
}
