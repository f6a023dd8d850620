package service_test

import (
	"context"
	"errors"
	"testing"

	"NexusFlow/internal/model"
	"NexusFlow/internal/service"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutboxRelayerDeliversAndRetries(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, s.db, model.RoleUser)
	b := testutil.CreateUser(t, s.db, model.RoleUser)
	c := testutil.CreateCommunity(t, s.db, a, "Hikers", true)
	_, err := s.communities.JoinCommunity(ctx, b.ID, c.ID)
	require.NoError(t, err)

	var delivered []string
	fail := true
	sender := func(_ context.Context, ob *model.OutboxEvent) error {
		if fail {
			return errors.New("broker down")
		}
		delivered = append(delivered, ob.EventType)
		return nil
	}
	relayer := service.NewOutboxRelayer(s.db, sender, 10, 0, zap.NewNop())

	assert.Equal(t, 0, relayer.DrainOnce(ctx))
	var failed int64
	require.NoError(t, s.db.Model(&model.OutboxEvent{}).Where("retry = 1").Count(&failed).Error)
	assert.Equal(t, int64(2), failed)

	fail = false
	assert.Equal(t, 2, relayer.DrainOnce(ctx))
	assert.Equal(t, []string{model.EventCommunityJoined, model.EventCommunityJoined}, delivered)

	var sent int64
	require.NoError(t, s.db.Model(&model.OutboxEvent{}).Where("status = ?", model.OutboxSent).Count(&sent).Error)
	assert.Equal(t, int64(2), sent)
	assert.Equal(t, 0, relayer.DrainOnce(ctx))
}

func TestLogSender(t *testing.T) {
	send := service.LogSender(zap.NewNop())
	assert.NoError(t, send(t.Context(), &model.OutboxEvent{EventType: model.EventPostLiked, Payload: []byte(`{}`)}))
}
